package constants

// Columns is the fixed header and column order for the CSV file and the
// XLSX mirror. Existing files are assumed to carry exactly this header;
// changing the order is a breaking change for downstream consumers.
var Columns = []string{
	"First name",
	"Middle name",
	"Last name",
	"Date created",
	"DOC #",
	"Facility name",
	"Address",
	"Unit",
	"AI Summary",
	"Raw text",
}

// Unknown is the sentinel written for any required field the model
// could not produce. Records are never rejected for missing fields.
const Unknown = "Unknown"

// DateLayout is the format for the "Date created" column.
const DateLayout = "2006-01-02"
