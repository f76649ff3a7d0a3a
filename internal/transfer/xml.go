package transfer

import (
	"encoding/xml"
	"fmt"
)

// xmlImportEntry accepts both the canonical element names and the aliases
// found in exports from other tools.
type xmlImportEntry struct {
	Title             string `xml:"title"`
	Name              string `xml:"name"`
	Email             string `xml:"email"`
	Username          string `xml:"username"`
	EncryptedPassword string `xml:"encrypted_password"`
	Password          string `xml:"password"`
	URL               string `xml:"url"`
	Notes             string `xml:"notes"`
	Extra             string `xml:"extra"`
}

type xmlImportDoc struct {
	XMLName xml.Name         `xml:"passwords"`
	Entries []xmlImportEntry `xml:"entry"`
}

type xmlExportEntry struct {
	Title             string `xml:"title"`
	Email             string `xml:"email"`
	Username          string `xml:"username"`
	EncryptedPassword string `xml:"encrypted_password"`
	URL               string `xml:"url"`
	Notes             string `xml:"notes"`
}

type xmlExportDoc struct {
	XMLName xml.Name         `xml:"passwords"`
	Entries []xmlExportEntry `xml:"entry"`
}

func decodeXML(data []byte) ([]Record, error) {
	var doc xmlImportDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("xml parse error: %w", err)
	}

	// unlike the tabular formats, every XML entry imports; missing elements
	// fall back to their aliases or stay empty
	records := make([]Record, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		records = append(records, Record{
			Title:             firstNonEmpty(e.Title, e.Name, "Untitled"),
			Email:             e.Email,
			Username:          e.Username,
			EncryptedPassword: firstNonEmpty(e.EncryptedPassword, e.Password),
			URL:               e.URL,
			Notes:             firstNonEmpty(e.Notes, e.Extra),
		})
	}

	return records, nil
}

func encodeXML(records []Record) ([]byte, error) {
	doc := xmlExportDoc{Entries: make([]xmlExportEntry, 0, len(records))}
	for _, r := range records {
		doc.Entries = append(doc.Entries, xmlExportEntry{
			Title:             r.Title,
			Email:             r.Email,
			Username:          r.Username,
			EncryptedPassword: r.EncryptedPassword,
			URL:               r.URL,
			Notes:             r.Notes,
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
