package note

import (
	"time"

	"smartnotes/internal/domain/entity"
)

// DTO is the JSON representation of a note.
type DTO struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Pinned        bool       `json:"pinned"`
	Tags          []string   `json:"tags"`
	AISummary     string     `json:"ai_summary,omitempty"`
	SummarySource string     `json:"summary_source,omitempty"`
	DigestedAt    *time.Time `json:"digested_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toDTO(n *entity.Note) DTO {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return DTO{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		Pinned:        n.Pinned,
		Tags:          tags,
		AISummary:     n.AISummary,
		SummarySource: n.SummarySource,
		DigestedAt:    n.DigestedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func toDTOs(notes []*entity.Note) []DTO {
	out := make([]DTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toDTO(n))
	}
	return out
}
