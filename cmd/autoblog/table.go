package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"AutoBlog/internal/usecase"
)

func renderResult(res usecase.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Workflow result")
	tw.AppendHeader(table.Row{"Field", "Value"})

	status := "success"
	if !res.Success {
		status = "failed"
	}
	tw.AppendRow(table.Row{"status", status})
	tw.AppendRow(table.Row{"stage", string(res.Stage)})

	if res.Success {
		tw.AppendRow(table.Row{"post", res.PostID})
		tw.AppendRow(table.Row{"title", res.Title})
		tw.AppendRow(table.Row{"keyword", fmt.Sprintf("%s (%.1f)", res.Keyword, res.Score)})
		published := "no"
		if res.Published {
			published = res.PublishedURL
		}
		tw.AppendRow(table.Row{"published", published})
	} else {
		tw.AppendRow(table.Row{"error", res.Error})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 100},
	})
	return tw.Render()
}
