package ledger

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/heybori/cashflow/internal/models"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"id", "date", "type", "amount", "category", "note",
	"team", "league", "program", "createdAt", "updatedAt",
}

// WriteCSV renders entries as a UTF-8 CSV document, prefixed with a byte
// order mark so spreadsheet tools detect the encoding.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.ID,
			e.Date,
			string(e.Type),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Note,
			e.Team,
			e.League,
			e.Program,
			strconv.FormatInt(e.CreatedAt, 10),
			strconv.FormatInt(e.UpdatedAt, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
