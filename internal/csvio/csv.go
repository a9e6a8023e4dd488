// Package csvio implements the CSV interchange format for the schedule
// data. The format is fixed:
//
//	Type,Date_Month,EndDate,Content,TeacherOnly
//	Event,<date>,<endDate-or-date>,<desc>,<true|false>
//	Note,<month>,,<content>,
//
// The encoder prefixes a UTF-8 BOM so spreadsheet applications detect the
// encoding. The decoder is deliberately forgiving: it scans characters and
// toggles an in-quote flag, so slightly malformed quoting still yields
// usable rows instead of aborting the import.
package csvio

import (
	"strings"

	"termcal/internal/model"
)

// BOM is the UTF-8 byte-order marker prepended to exports.
const BOM = "\uFEFF"

var header = []string{"Type", "Date_Month", "EndDate", "Content", "TeacherOnly"}

// Document is the decoded content of an import file. Ids are zero; the
// store assigns fresh ones on replace.
type Document struct {
	Events []model.Event
	Notes  []model.Note
	// Skipped counts non-blank rows discarded as malformed.
	Skipped int
}

// Encode serializes events and notes into the interchange format.
func Encode(events []model.Event, notes []model.Note) []byte {
	var b strings.Builder
	b.WriteString(BOM)
	writeRow(&b, header)

	for _, e := range events {
		writeRow(&b, []string{
			"Event",
			e.Date,
			e.End(),
			e.Desc,
			boolField(e.TeacherOnly),
		})
	}
	for _, n := range notes {
		writeRow(&b, []string{"Note", n.Month, "", n.Content, ""})
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// escapeField wraps a field in double quotes, doubling internal quotes, when
// it contains a comma, quote, or newline.
func escapeField(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

func boolField(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// Decode parses an interchange payload. The header row is skipped, blank
// rows are ignored, and malformed rows (fewer than 4 fields, or missing a
// required field) are counted in Skipped and dropped; decoding itself never
// fails.
func Decode(data []byte) Document {
	var doc Document

	text := strings.TrimPrefix(string(data), BOM)
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := splitFields(line)
		if len(fields) < 4 {
			doc.Skipped++
			continue
		}

		switch fields[0] {
		case "Event":
			if fields[1] == "" || fields[3] == "" {
				doc.Skipped++
				continue
			}
			end := fields[2]
			if end == "" {
				end = fields[1]
			}
			doc.Events = append(doc.Events, model.Event{
				Date:        fields[1],
				EndDate:     end,
				Desc:        fields[3],
				TeacherOnly: len(fields) > 4 && fields[4] == "true",
			})
		case "Note":
			if fields[1] == "" || fields[3] == "" {
				doc.Skipped++
				continue
			}
			doc.Notes = append(doc.Notes, model.Note{
				Month:   fields[1],
				Content: fields[3],
			})
		default:
			doc.Skipped++
		}
	}
	return doc
}

// splitFields tokenizes one row: a double quote toggles the in-quote flag,
// commas split only outside quotes, and a field still wrapped in quotes
// afterwards is unwrapped one layer with internal quotes un-doubled.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())

	for i, f := range fields {
		if len(f) >= 2 && strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`) {
			fields[i] = strings.ReplaceAll(f[1:len(f)-1], `""`, `"`)
		}
	}
	return fields
}
