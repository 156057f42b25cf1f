package enums

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)
