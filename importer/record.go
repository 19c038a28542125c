package importer

// Row maps a header name to the raw cell value of one data line.
type Row map[string]string

// Get returns the value stored for header, or "" when the row has no such
// column.
func (r Row) Get(header string) string {
	return r[header]
}

// Table is a parsed input file: the header row in column order and one Row
// per data line in file order.
type Table struct {
	Headers []string
	Rows    []Row
}

func (t Table) HasHeader(name string) bool {
	for _, header := range t.Headers {
		if header == name {
			return true
		}
	}
	return false
}

// MissingHeaders returns the names from required that are absent from the
// header row, in the order they were given.
func (t Table) MissingHeaders(required []string) []string {
	missing := make([]string, 0)
	for _, name := range required {
		if !t.HasHeader(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// newRow pairs headers with fields by position. Fields past the last header
// are dropped and headers without a field are left out of the map.
func newRow(headers, fields []string) Row {
	row := make(Row, len(headers))
	for i, header := range headers {
		if i >= len(fields) {
			break
		}
		row[header] = fields[i]
	}
	return row
}
