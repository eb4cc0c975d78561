package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render formats req as a numbered table with its usage hint.
func Render(req *Request) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if req.Title != "" {
		tw.SetTitle(req.Title)
	}
	tw.AppendHeader(table.Row{"#", "", "Option", "Detail"})
	for i, opt := range req.Options {
		mark := "[ ]"
		if opt.Checked {
			mark = "[x]"
		}
		tw.AppendRow(table.Row{i + 1, mark, opt.Label, opt.Detail})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	var b strings.Builder
	if req.Subject != "" {
		fmt.Fprintf(&b, "%s\n", req.Subject)
	}
	b.WriteString(tw.Render())
	b.WriteString("\n")
	b.WriteString(Hint(req))
	return b.String()
}

// Hint describes the accepted answers for req.
func Hint(req *Request) string {
	enter := "Enter keeps the checked rows"
	if len(req.Preselected()) == 0 {
		enter = "Enter selects nothing"
	}
	return fmt.Sprintf("Choose rows by number (e.g. 1 3), 'all' or 'none'; %s.", enter)
}

// ParseAnswer converts typed input into option ids. Blank input keeps the
// checked options; "all" and "none" select every or no option; otherwise
// input lists 1-based row numbers separated by spaces or commas.
func ParseAnswer(req *Request, input string) ([]string, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "":
		return req.Preselected(), nil
	case "all", "*":
		ids := make([]string, 0, len(req.Options))
		for _, opt := range req.Options {
			ids = append(ids, opt.ID)
		}
		return ids, nil
	case "none", "-":
		return []string{}, nil
	}
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%q is not a row number", field)
		}
		if n < 1 || n > len(req.Options) {
			return nil, fmt.Errorf("row %d out of range (1-%d)", n, len(req.Options))
		}
		ids = append(ids, req.Options[n-1].ID)
	}
	return ids, nil
}
