package api

import (
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/search"
)

// NoteRequest is the request body for setting a user note.
type NoteRequest struct {
	Note *string `json:"note" example:"show short status" validate:"required"`
}

// AliasResponse is one alias with its effective note.
type AliasResponse struct {
	Name     string `json:"name" example:"gst" validate:"required"`
	Body     string `json:"body" example:"git status" validate:"required"`
	Note     string `json:"note" example:"quick status"`
	File     string `json:"file" example:"/home/me/.zshrc" validate:"required"`
	Line     int    `json:"line" example:"12" validate:"required"`
	Location string `json:"location" example:"/home/me/.zshrc:12" validate:"required"`
}

// AliasHit is an alias with its search score.
type AliasHit struct {
	AliasResponse
	Score int `json:"score" example:"2" validate:"required"`
}

// AliasListResponse wraps ranked aliases.
type AliasListResponse struct {
	Query   string     `json:"query" example:"git st"`
	Total   int        `json:"total" example:"42" validate:"required"`
	Results []AliasHit `json:"results" validate:"required"`
}

// AliasDetailResponse is a single alias with its recent runs.
type AliasDetailResponse struct {
	AliasResponse
	Runs []models.Run `json:"runs"`
}

// HistoryResponse wraps recorded runs.
type HistoryResponse struct {
	Runs []models.Run `json:"runs" validate:"required"`
}

func toAliasResponse(a models.Alias) AliasResponse {
	return AliasResponse{
		Name:     a.Name,
		Body:     a.Body,
		Note:     a.Note,
		File:     a.File,
		Line:     a.Line,
		Location: a.Location(),
	}
}

func toAliasHits(hits []search.Hit) []AliasHit {
	out := make([]AliasHit, len(hits))
	for i, h := range hits {
		out[i] = AliasHit{AliasResponse: toAliasResponse(h.Alias), Score: h.Score}
	}
	return out
}
