package domain

import (
	"errors"
	"fmt"
	"time"
)

// MissingSheetError reports a source workbook without the expected worksheet.
type MissingSheetError struct {
	Source string
	Sheet  string
}

func (e MissingSheetError) Error() string {
	return fmt.Sprintf("%s: worksheet %q not found", e.Source, e.Sheet)
}

// SchemaError reports a required column absent from the detected header row.
type SchemaError struct {
	Source  string
	Sheet   string
	Column  string
	Closest string
}

func (e SchemaError) Error() string {
	if e.Closest != "" {
		return fmt.Sprintf("%s: column %q not found in sheet %q (closest header: %q)", e.Source, e.Column, e.Sheet, e.Closest)
	}
	return fmt.Sprintf("%s: column %q not found in sheet %q", e.Source, e.Column, e.Sheet)
}

// InvalidRangeError reports a date window whose start falls after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid period: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// CalculationError reports a record whose bonus could not be computed.
type CalculationError struct {
	Source     string
	Row        int
	Driver     string
	CostCenter string
	Field      string
	Reason     string
}

func (e CalculationError) Error() string {
	return fmt.Sprintf("%s row %d (%s, %s): %s %s",
		e.Source, e.Row, e.Driver, e.CostCenter, e.Field, e.Reason)
}

func IsMissingSheet(err error) bool {
	var target MissingSheetError
	return errors.As(err, &target)
}

func IsSchema(err error) bool {
	var target SchemaError
	return errors.As(err, &target)
}

func IsInvalidRange(err error) bool {
	var target InvalidRangeError
	return errors.As(err, &target)
}

func IsCalculation(err error) bool {
	var target CalculationError
	return errors.As(err, &target)
}
