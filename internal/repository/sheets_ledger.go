package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"promo-api/internal/domain"
	"promo-api/pkg/utils"
)

// Ledger column layout, one submission per row:
// Timestamp | Segment | Full Name | Owner ID | Mobile Number | Email |
// Receipt Number | Receipt Date | Image Link | Answer | Status | Winner
var sheetHeader = []interface{}{
	"Timestamp", "Segment", "Full Name", "Owner ID", "Mobile Number", "Email",
	"Receipt Number", "Receipt Date", "Image Link", "Answer", "Submission Status", "Winner",
}

const sheetColumnCount = 12

// timestampLayout is how timestamps are rendered into sheet cells
const timestampLayout = "2006-01-02 15:04:05"

var updatedRangeRe = regexp.MustCompile(`![A-Z]+(\d+)(?::[A-Z]+\d+)?$`)

// SheetsLedger stores entries as rows of a Google Sheet. The sheet remains
// directly readable by campaign staff, so the column layout is part of the
// contract and must not change mid-campaign.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string

	// Sheets has no unique constraint, so the scan-then-append in
	// AppendIfAbsent is serialized within this process.
	mu sync.Mutex

	headerMu      sync.Mutex
	headerEnsured bool
}

// NewSheetsLedger creates a ledger backed by the given spreadsheet
func NewSheetsLedger(ctx context.Context, client *http.Client, spreadsheetID, sheetName string) (*SheetsLedger, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsLedger{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ensureHeader writes the header row if the sheet is empty. The latch is set
// only on success so a transient Sheets failure is retried on the next
// append instead of poisoning the ledger for the process lifetime.
func (l *SheetsLedger) ensureHeader(ctx context.Context) error {
	l.headerMu.Lock()
	defer l.headerMu.Unlock()

	if l.headerEnsured {
		return nil
	}

	resp, err := l.svc.Spreadsheets.Values.
		Get(l.spreadsheetID, l.rangeRef("A1:L1")).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) == 0 {
		_, err = l.svc.Spreadsheets.Values.
			Update(l.spreadsheetID, l.rangeRef("A1:L1"), &sheets.ValueRange{
				Values: [][]interface{}{sheetHeader},
			}).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
	}

	l.headerEnsured = true
	return nil
}

// Append stores a new entry as the next sheet row
func (l *SheetsLedger) Append(ctx context.Context, entry *domain.Entry) (int64, error) {
	if err := l.ensureHeader(ctx); err != nil {
		return 0, err
	}

	resp, err := l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, l.rangeRef("A:L"), &sheets.ValueRange{
			Values: [][]interface{}{entryToRow(entry)},
		}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append entry row: %w", err)
	}

	rowID, err := rowIDFromUpdatedRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, err
	}
	return rowID, nil
}

// AppendIfAbsent appends the entry unless its receipt number already has a
// row. The duplicate scan and the append hold the ledger mutex together.
func (l *SheetsLedger) AppendIfAbsent(ctx context.Context, entry *domain.Entry) (int64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rowID, _, err := l.findReceiptRow(ctx, entry.ReceiptNumber)
	if err != nil {
		return 0, false, err
	}
	if rowID != 0 {
		return rowID, false, nil
	}

	rowID, err = l.Append(ctx, entry)
	if err != nil {
		return 0, false, err
	}
	return rowID, true, nil
}

// ScanAll returns every stored entry in sheet order
func (l *SheetsLedger) ScanAll(ctx context.Context) ([]*domain.Entry, error) {
	resp, err := l.svc.Spreadsheets.Values.
		Get(l.spreadsheetID, l.rangeRef("A2:L")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read entry rows: %w", err)
	}

	entries := make([]*domain.Entry, 0, len(resp.Values))
	for _, row := range resp.Values {
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

// FindByReceipt returns the entry for a receipt number, or nil when absent
func (l *SheetsLedger) FindByReceipt(ctx context.Context, receiptNumber string) (*domain.Entry, error) {
	_, entry, err := l.findReceiptRow(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SetWinner writes the winner flag cell for the matching row
func (l *SheetsLedger) SetWinner(ctx context.Context, receiptNumber string, isWinner bool) error {
	return l.updateCell(ctx, receiptNumber, "L", strconv.FormatBool(isWinner))
}

// UpdateStatus writes the status cell for the matching row
func (l *SheetsLedger) UpdateStatus(ctx context.Context, receiptNumber, status string) error {
	return l.updateCell(ctx, receiptNumber, "K", status)
}

// Health verifies the spreadsheet is reachable
func (l *SheetsLedger) Health(ctx context.Context) error {
	_, err := l.svc.Spreadsheets.
		Get(l.spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet unreachable: %w", err)
	}
	return nil
}

// findReceiptRow scans the receipt column for a trim-exact match. Returns the
// 1-based sheet row number and the full entry, or zero values when absent.
func (l *SheetsLedger) findReceiptRow(ctx context.Context, receiptNumber string) (int64, *domain.Entry, error) {
	target := utils.NormalizeReceiptNumber(receiptNumber)
	if target == "" {
		return 0, nil, nil
	}

	resp, err := l.svc.Spreadsheets.Values.
		Get(l.spreadsheetID, l.rangeRef("A2:L")).
		Context(ctx).Do()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to scan receipt column: %w", err)
	}

	for i, row := range resp.Values {
		if utils.NormalizeReceiptNumber(cellString(row, 6)) == target {
			// Data rows start at sheet row 2
			return int64(i + 2), rowToEntry(row), nil
		}
	}
	return 0, nil, nil
}

// updateCell writes one cell in the row matching the receipt number
func (l *SheetsLedger) updateCell(ctx context.Context, receiptNumber, column, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rowID, _, err := l.findReceiptRow(ctx, receiptNumber)
	if err != nil {
		return err
	}
	if rowID == 0 {
		return domain.ErrEntryNotFound
	}

	cellRange := l.rangeRef(fmt.Sprintf("%s%d", column, rowID))
	_, err = l.svc.Spreadsheets.Values.
		Update(l.spreadsheetID, cellRange, &sheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cellRange, err)
	}
	return nil
}

func (l *SheetsLedger) rangeRef(cells string) string {
	return fmt.Sprintf("%s!%s", l.sheetName, cells)
}

// rowIDFromUpdatedRange extracts the sheet row number from an append
// response range such as "Submissions!A7:L7".
func rowIDFromUpdatedRange(updatedRange string) (int64, error) {
	m := updatedRangeRe.FindStringSubmatch(updatedRange)
	if m == nil {
		return 0, fmt.Errorf("unexpected updated range %q", updatedRange)
	}
	return strconv.ParseInt(m[1], 10, 64)
}

// entryToRow renders an entry into the 12-column sheet layout
func entryToRow(entry *domain.Entry) []interface{} {
	return []interface{}{
		entry.Timestamp.Format(timestampLayout),
		entry.Segment,
		entry.FullName,
		entry.OwnerID,
		entry.Phone,
		entry.Email,
		entry.ReceiptNumber,
		entry.ReceiptDate.Format(domain.ReceiptDateLayout),
		entry.ImageURL,
		entry.Answer,
		entry.Status,
		strconv.FormatBool(entry.IsWinner),
	}
}

// rowToEntry parses a sheet row back into an entry. Rows may be short when
// trailing cells are empty; missing cells read as empty strings. The winner
// cell is weakly typed in historical data and normalized here.
func rowToEntry(row []interface{}) *domain.Entry {
	entry := &domain.Entry{
		Segment:       cellString(row, 1),
		FullName:      cellString(row, 2),
		OwnerID:       cellString(row, 3),
		Phone:         cellString(row, 4),
		Email:         cellString(row, 5),
		ReceiptNumber: utils.NormalizeReceiptNumber(cellString(row, 6)),
		ImageURL:      cellString(row, 8),
		Answer:        cellString(row, 9),
		Status:        cellString(row, 10),
	}

	entry.Timestamp = parseCellTime(cellString(row, 0), timestampLayout)
	entry.ReceiptDate = parseCellTime(cellString(row, 7), domain.ReceiptDateLayout)

	if len(row) > 11 {
		entry.IsWinner = domain.ParseWinnerFlag(row[11])
	}

	return entry
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", row[idx])
}

// parseCellTime parses a cell with its expected layout, falling back to
// RFC 3339 for rows written by older tooling. Unparseable cells read as the
// zero time rather than failing the whole scan.
func parseCellTime(value, layout string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(layout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
