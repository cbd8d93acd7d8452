package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PayslipData struct {
	CompanyName  string
	EmployeeName string
	EmployeeCode string
	Designation  string
	Period       string
	DaysWorked   string
	Status       string

	Earnings   []PayslipLine
	Deductions []PayslipLine

	GrossSalary     string
	TotalDeductions string
	NetSalary       string
}

type PayslipLine struct {
	Label  string
	Amount string
}

func (p *MarotoProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.CompanyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Payslip for "+data.Period, props.Text{
			Size:  11,
			Align: align.Center,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Employee: "+data.EmployeeName, props.Text{Top: 0}),
			text.New("Code: "+data.EmployeeCode, props.Text{Top: 5}),
			text.New("Designation: "+data.Designation, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Days worked: "+data.DaysWorked, props.Text{Top: 0}),
			text.New("Status: "+data.Status, props.Text{Top: 5}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Earnings", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(6, "Deductions", props.Text{Style: fontstyle.Bold, Size: 10}),
	)

	rows := len(data.Earnings)
	if len(data.Deductions) > rows {
		rows = len(data.Deductions)
	}
	for i := 0; i < rows; i++ {
		var left, leftAmt, right, rightAmt string
		if i < len(data.Earnings) {
			left, leftAmt = data.Earnings[i].Label, data.Earnings[i].Amount
		}
		if i < len(data.Deductions) {
			right, rightAmt = data.Deductions[i].Label, data.Deductions[i].Amount
		}
		m.AddRow(8,
			text.NewCol(4, left, props.Text{Size: 9}),
			text.NewCol(2, leftAmt, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, right, props.Text{Size: 9}),
			text.NewCol(2, rightAmt, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		text.NewCol(4, "Gross salary", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.GrossSalary, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(4, "Total deductions", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.TotalDeductions, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Net pay", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.NetSalary, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
