// Package importer parses the daily full-inventory CSV export into
// normalized drum rows. Parsing is pure: no I/O, no database access.
// The caller decides what to do with the result (the drum repository
// performs the delete-and-batch-insert replacement).
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mzurek/drumtrack/internal/model"
)

// Canonical column names produced by header mapping. These match the
// columns of the drums table.
const (
	ColKodBebna    = "kod_bebna"
	ColNIP         = "nip"
	ColNazwa       = "nazwa"
	ColCecha       = "cecha"
	ColKonDostawca = "kon_dostawca"
	ColDataWydania = "data_wydania"
	ColDataZwrotu  = "data_zwrotu_do_dostawcy"
	ColTypDok      = "typ_dok"
	ColNrDokuPZ    = "nr_dokumentupz"
	ColStatus      = "status"
)

// headerMap maps a normalized header (lowercased, non-alphanumerics
// stripped) to its canonical column name. Headers not present here
// pass through verbatim under their original name, so schema drift in
// the source export widens rows instead of silently dropping data.
var headerMap = map[string]string{
	"kodbebna":             ColKodBebna,
	"kod":                  ColKodBebna,
	"nip":                  ColNIP,
	"nipklienta":           ColNIP,
	"nazwa":                ColNazwa,
	"nazwabebna":           ColNazwa,
	"cecha":                ColCecha,
	"kondostawca":          ColKonDostawca,
	"dostawca":             ColKonDostawca,
	"datawydania":          ColDataWydania,
	"datazwrotudodostawcy": ColDataZwrotu,
	"datazwrotu":           ColDataZwrotu,
	"typdok":               ColTypDok,
	"typdokumentu":         ColTypDok,
	"nrdokumentupz":        ColNrDokuPZ,
	"nrdokumentu":          ColNrDokuPZ,
	"status":               ColStatus,
}

// ErrEmptyDocument is returned for an empty body or a document that
// contains a header row but no data rows.
var ErrEmptyDocument = errors.New("import document contains no data rows")

// Parse splits the raw CSV text into normalized row maps keyed by
// canonical column names. Rows whose field count does not match the
// header, and rows missing the drum code or the owning NIP, are
// skipped and counted rather than failing the document. Parse fails
// only when the document is empty or when no valid row remains.
func Parse(raw string) (rows []map[string]string, skipped int, err error) {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil, 0, ErrEmptyDocument
	}

	header := parseLine(lines[0])
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = canonicalHeader(h)
	}
	if len(lines) == 1 {
		return nil, 0, ErrEmptyDocument
	}

	for _, line := range lines[1:] {
		fields := parseLine(line)
		if len(fields) != len(cols) {
			skipped++
			continue
		}
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			v := strings.TrimSpace(fields[i])
			if isDateColumn(col) {
				v = ConvertDate(v)
			}
			row[col] = v
		}
		if row[ColKodBebna] == "" || row[ColNIP] == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, skipped, fmt.Errorf("no valid rows in import document (%d skipped)", skipped)
	}
	return rows, skipped, nil
}

// ToDrum converts a parsed row into a Drum. Recognized canonical
// columns map to struct fields; everything else lands in Extra.
func ToDrum(row map[string]string) model.Drum {
	d := model.Drum{
		KodBebna:      row[ColKodBebna],
		NIP:           row[ColNIP],
		Nazwa:         row[ColNazwa],
		Cecha:         row[ColCecha],
		KonDostawca:   row[ColKonDostawca],
		DataWydania:   row[ColDataWydania],
		DataZwrotu:    row[ColDataZwrotu],
		TypDok:        row[ColTypDok],
		NrDokumentuPZ: row[ColNrDokuPZ],
		Status:        row[ColStatus],
	}
	known := map[string]bool{
		ColKodBebna: true, ColNIP: true, ColNazwa: true, ColCecha: true,
		ColKonDostawca: true, ColDataWydania: true, ColDataZwrotu: true,
		ColTypDok: true, ColNrDokuPZ: true, ColStatus: true,
	}
	for k, v := range row {
		if !known[k] {
			if d.Extra == nil {
				d.Extra = map[string]string{}
			}
			d.Extra[k] = v
		}
	}
	return d
}

// ConvertDate rewrites DD.MM.YYYY into YYYY-MM-DD. Any value not
// matching that exact three-part dot-separated shape is returned
// unchanged; the importer never fails on a date it cannot read.
func ConvertDate(v string) string {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return v
	}
	d, m, y := parts[0], parts[1], parts[2]
	if len(d) != 2 || len(m) != 2 || len(y) != 4 {
		return v
	}
	if !allDigits(d) || !allDigits(m) || !allDigits(y) {
		return v
	}
	return y + "-" + m + "-" + d
}

// canonicalHeader maps a raw header through headerMap after
// normalization. Unknown headers keep their original trimmed name.
func canonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	key := normalizeHeader(h)
	if canon, ok := headerMap[key]; ok {
		return canon
	}
	return h
}

// normalizeHeader lowercases and strips every non-alphanumeric rune,
// so "Kod Bebna", "KOD_BEBNA" and "kod-bebna" all collide on purpose.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isDateColumn reports whether values under this header go through
// date conversion. The substring check deliberately catches both the
// Polish "data" and English "date" spellings in drifted headers.
func isDateColumn(col string) bool {
	l := strings.ToLower(col)
	return strings.Contains(l, "data") || strings.Contains(l, "date")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitLines splits on LF, tolerating CRLF, and drops blank lines.
func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseLine splits one CSV line on commas, honoring double-quoted
// fields that may contain the separator. Doubled quotes inside a
// quoted field unescape to a single quote per the usual convention.
// The source export is line-oriented, so quoted fields never span
// lines and a whole-document reader is not needed here.
func parseLine(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				quoted = !quoted
			}
		case ch == ',' && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
