package handlers

import (
	"encoding/json"
	"strings"

	"github.com/iancoleman/orderedmap"

	"dganalyzer/internal/jsonx"
	"dganalyzer/internal/sections"
)

// sectionView is a JSON-ish section (summary, controls) ready to render.
type sectionView struct {
	Title          string
	Found          bool
	Key            string
	CandidatesText string
	Text           string
	IsText         bool
}

// fieldsView is the field-metadata section laid out as a grid.
type fieldsView struct {
	Title          string
	Found          bool
	Key            string
	CandidatesText string
	Grid           sections.Grid
}

// analysisView is everything the dashboard shows for one analysis.
type analysisView struct {
	Summary  sectionView
	Fields   fieldsView
	Controls sectionView
	RawJSON  string
}

// decodeAnalysis decodes the analysis for display. Input that cannot be
// decoded is kept as text under "_raw".
func decodeAnalysis(raw json.RawMessage) any {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return jsonx.NewObject()
	}
	v, err := jsonx.Decode(raw)
	if err != nil {
		obj := jsonx.NewObject()
		obj.Set("_raw", string(raw))
		return obj
	}
	return v
}

// buildAnalysisView resolves every section of analysis using table. A
// section that is missing renders as not found; the raw document is always
// included.
func buildAnalysisView(analysis any, table sections.Table) analysisView {
	obj, _ := analysis.(*orderedmap.OrderedMap)
	if obj == nil {
		obj = jsonx.NewObject()
	}

	view := analysisView{
		Summary:  buildSection(obj, table, sections.Summary, "Resumen ejecutivo"),
		Controls: buildSection(obj, table, sections.Controls, "Controles mínimos de Data Governance"),
		Fields: fieldsView{
			Title:          "Metadata a nivel campo",
			CandidatesText: candidatesText(table, sections.Fields),
		},
	}

	if key, v, found := table.Resolve(obj, sections.Fields); found {
		rows := sections.NormalizeFields(v)
		if len(rows) > 0 {
			view.Fields.Found = true
			view.Fields.Key = key
			view.Fields.Grid = sections.BuildGrid(rows)
		}
	}

	if raw, err := jsonx.MarshalIndent(analysis); err == nil {
		view.RawJSON = string(raw)
	}
	return view
}

func buildSection(obj *orderedmap.OrderedMap, table sections.Table, section, title string) sectionView {
	sv := sectionView{
		Title:          title,
		CandidatesText: candidatesText(table, section),
	}

	key, v, found := table.Resolve(obj, section)
	if !found {
		return sv
	}
	sv.Found = true
	sv.Key = key

	if s, ok := v.(string); ok {
		sv.Text = s
		sv.IsText = true
		return sv
	}
	if pretty, err := jsonx.MarshalIndent(v); err == nil {
		sv.Text = string(pretty)
	} else {
		sv.Text = jsonx.String(v)
	}
	return sv
}

func candidatesText(table sections.Table, section string) string {
	return strings.Join(table.Candidates(section), ", ")
}
