// Package transfer implements the bulk import/export codecs for vault
// entries: CSV, XLSX/XLSM workbooks, and XML. Decoders are tolerant of the
// column aliases produced by other password managers; encoders emit a fixed
// column order.
package transfer

import (
	"path/filepath"
	"strings"

	"github.com/safepass/server/internal/common"
)

// Record is one row of an import/export file. EncryptedPassword is carried
// verbatim; the codec never inspects it.
type Record struct {
	Title             string
	Email             string
	Username          string
	EncryptedPassword string
	URL               string
	Notes             string
}

// exportColumns is the fixed header/element order of every export format.
var exportColumns = []string{"title", "email", "username", "encrypted_password", "url", "notes"}

// Format identifies an import/export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLSM Format = "xlsm"
	FormatXML  Format = "xml"
)

// ParseFormat maps a format query parameter to a Format. An empty value
// selects CSV. Unknown values yield common.ErrorUnsupportedFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "xlsm":
		return FormatXLSM, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", common.ErrorUnsupportedFormat
	}
}

// FormatFromFilename derives the Format from an uploaded file's extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", common.ErrorUnsupportedFormat
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type served with an export in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXLSM:
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	case FormatXML:
		return "application/xml"
	default:
		return "text/csv"
	}
}

// ExportFilename returns the attachment filename for this format.
func (f Format) ExportFilename() string {
	return "safepass_export." + string(f)
}

// Decode parses data in the given format into records.
func Decode(f Format, data []byte) ([]Record, error) {
	switch f {
	case FormatCSV:
		return decodeCSV(data)
	case FormatXLSX, FormatXLSM:
		return decodeXLSX(data)
	case FormatXML:
		return decodeXML(data)
	default:
		return nil, common.ErrorUnsupportedFormat
	}
}

// Encode serializes records in the given format.
func Encode(f Format, records []Record) ([]byte, error) {
	switch f {
	case FormatCSV:
		return encodeCSV(records)
	case FormatXLSX, FormatXLSM:
		return encodeXLSX(records)
	case FormatXML:
		return encodeXML(records)
	default:
		return nil, common.ErrorUnsupportedFormat
	}
}

// recordFromFields builds a Record from a header-keyed row, applying the
// column aliases other password managers use (name for title, password for
// encrypted_password, website for url, extra for notes). Rows without a
// title, name, or url are not importable and report ok=false.
func recordFromFields(fields map[string]string) (Record, bool) {
	if fields["title"] == "" && fields["name"] == "" && fields["url"] == "" {
		return Record{}, false
	}

	r := Record{
		Title:             firstNonEmpty(fields["title"], fields["name"], "Untitled"),
		Email:             fields["email"],
		Username:          fields["username"],
		EncryptedPassword: firstNonEmpty(fields["encrypted_password"], fields["password"]),
		URL:               firstNonEmpty(fields["url"], fields["website"]),
		Notes:             firstNonEmpty(fields["notes"], fields["extra"]),
	}
	return r, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func exportValues(r Record) []string {
	return []string{r.Title, r.Email, r.Username, r.EncryptedPassword, r.URL, r.Notes}
}
