package broadcast

import "fmt"

// Row maps a column name to that row's value. Values are kept as strings;
// numeric cells are carried in their original textual form.
type Row map[string]string

// Dataset is an immutable, ordered table. Every row has the same column set.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDatasetFromRecords builds a Dataset from raw CSV records. The first
// record is the header, and its values become the column names. Duplicate
// headers are renamed with a numeric suffix, rows shorter than the header are
// padded with empty values, and extra trailing values are dropped.
func NewDatasetFromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records provided")
	}

	headers := make([]string, len(records[0]))
	copy(headers, records[0])

	headerCount := make(map[string]int)
	for i, header := range headers {
		if count, exists := headerCount[header]; exists {
			headerCount[header]++
			// First duplicate becomes name_2, next name_3, and so on.
			headers[i] = fmt.Sprintf("%s_%d", header, count+1)
		} else {
			headerCount[header] = 1
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := make(Row, len(headers))
		for j := 0; j < len(headers); j++ {
			if j < len(records[i]) {
				row[headers[j]] = records[i][j]
			} else {
				row[headers[j]] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: headers, Rows: rows}, nil
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Recipients returns the distinct non-empty values of emailColumn in
// first-seen order. An address appearing in several rows is listed once.
func (d *Dataset) Recipients(emailColumn string) []string {
	var emails []string
	seen := make(map[string]bool)

	for _, row := range d.Rows {
		email := row[emailColumn]
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}

	return emails
}

// FirstRowFor returns the first row whose column equals value. An address
// with multiple rows always maps to its first matching row.
func (d *Dataset) FirstRowFor(column, value string) (Row, bool) {
	for _, row := range d.Rows {
		if row[column] == value {
			return row, true
		}
	}
	return nil, false
}
