package licenses

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	dateTimeLayout = "02.01.2006 15:04:05"
	dateLayout     = "02.01.2006"

	// inRegisterMark is the normalized status text denoting a record that is
	// actively published in the register.
	inRegisterMark = "размещена"
)

// MaxDate substitutes for blank date cells in the registry export. It is the
// largest value the export's date format can express.
var MaxDate = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// normalize trims surrounding whitespace and lowercases cell text.
// A cases.Caser is stateful, so one is built per call.
func normalize(s string) string {
	return cases.Lower(language.Russian).String(strings.TrimSpace(s))
}

// Row is one normalized record from the license spreadsheet. Field names
// follow the registry export, misspellings included.
type Row struct {
	NumberInFile            int       `json:"number_in_file"`
	HouseFiasID             string    `json:"house_fias_id"`
	LicenseNumber           string    `json:"license_number"`
	LicenseDate             string    `json:"license_date"`
	LicenseStatus           string    `json:"license_status"`
	LicenseIncludedDate     string    `json:"license_included_date"`
	OrderNumber             string    `json:"order_number"`
	OrderDate               string    `json:"order_date"`
	LisenceJuristicAddress  string    `json:"lisence_juristic_address"`
	LicenseHolderUID        string    `json:"license_holder_uid"`
	AdditionalInfo          string    `json:"additional_info"`
	LicenseHolderName       string    `json:"license_holder_name"`
	INN                     string    `json:"inn"`
	OGRN                    string    `json:"ogrn"`
	MKDAddress              string    `json:"mkd_address"`
	GosUslugiHouseCode      string    `json:"gos_uslugi_house_code"`
	MKDIncludedRegisterDate time.Time `json:"mkd_included_register_date"`
	MKDBeginManagementDate  time.Time `json:"mkd_begin_management_date"`
	MKDEndManagementDate    time.Time `json:"mkd_end_management_date"`
	MKDExcludedRegisterDate time.Time `json:"mkd_excluded_register_date"`
	MKDExcludedReason       string    `json:"mkd_excluded_reason"`
	State198Info            string    `json:"state_198_info"`
	IsInformationInRegister bool      `json:"is_information_in_register"`
}

// cellAt returns the cell at index i, or "" when the row is short.
func cellAt(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

// parseDateOr parses a normalized date cell with the given layout. A blank
// cell yields def; a malformed non-blank cell is a fatal error for the row.
func parseDateOr(value, layout string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, eris.Wrapf(ErrDateFormat, "value %q does not match %q", value, layout)
	}
	return t, nil
}

// newRow builds a Row from the field cells of one physical spreadsheet row.
// The caller has already dropped the two trailing cells; numberInFile is the
// row's physical position in the sheet. Normalization order: trim/lowercase
// every textual cell, then parse locale dates with max-date defaulting, then
// derive the register flag from the already-normalized status text.
func newRow(numberInFile int, cells []string) (Row, error) {
	r := Row{
		NumberInFile:           numberInFile,
		HouseFiasID:            "", // reserved, never read from the sheet
		LicenseNumber:          normalize(cellAt(cells, 0)),
		LicenseDate:            normalize(cellAt(cells, 1)),
		LicenseStatus:          normalize(cellAt(cells, 2)),
		LicenseIncludedDate:    normalize(cellAt(cells, 3)),
		OrderNumber:            normalize(cellAt(cells, 4)),
		OrderDate:              normalize(cellAt(cells, 5)),
		LisenceJuristicAddress: normalize(cellAt(cells, 6)),
		LicenseHolderUID:       normalize(cellAt(cells, 7)),
		AdditionalInfo:         normalize(cellAt(cells, 8)),
		LicenseHolderName:      normalize(cellAt(cells, 9)),
		INN:                    normalize(cellAt(cells, 10)),
		OGRN:                   normalize(cellAt(cells, 11)),
		MKDAddress:             normalize(cellAt(cells, 12)),
		GosUslugiHouseCode:     normalize(cellAt(cells, 13)),
		MKDExcludedReason:      normalize(cellAt(cells, 18)),
		State198Info:           normalize(cellAt(cells, 19)),
	}

	var err error
	r.MKDIncludedRegisterDate, err = parseDateOr(normalize(cellAt(cells, 14)), dateTimeLayout, MaxDate)
	if err != nil {
		return Row{}, eris.Wrapf(err, "row %d: mkd_included_register_date", numberInFile)
	}
	r.MKDBeginManagementDate, err = parseDateOr(normalize(cellAt(cells, 15)), dateLayout, MaxDate)
	if err != nil {
		return Row{}, eris.Wrapf(err, "row %d: mkd_begin_management_date", numberInFile)
	}
	r.MKDEndManagementDate, err = parseDateOr(normalize(cellAt(cells, 16)), dateLayout, MaxDate)
	if err != nil {
		return Row{}, eris.Wrapf(err, "row %d: mkd_end_management_date", numberInFile)
	}
	r.MKDExcludedRegisterDate, err = parseDateOr(normalize(cellAt(cells, 17)), dateTimeLayout, MaxDate)
	if err != nil {
		return Row{}, eris.Wrapf(err, "row %d: mkd_excluded_register_date", numberInFile)
	}

	r.IsInformationInRegister = r.LicenseStatus == inRegisterMark

	return r, nil
}
