package panel

import (
	"context"
	"sort"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

const DefaultPageSize = 4

type LoginHistory struct {
	env Env
}

func NewLoginHistory(env Env) LoginHistory {
	return LoginHistory{env}
}

type LoginHistoryView struct {
	Entries  []portal.LoginHistoryEntry `json:"entries"`
	Page     int                        `json:"page"`
	Pages    int                        `json:"pages"`
	PageSize int                        `json:"page_size"`
	Total    int                        `json:"total"`
	Message  *Message                   `json:"message,omitempty"`
}

// Load returns one page of the user's logins, most recent first. page is clamped to
// the available pages.
func (h LoginHistory) Load(ctx context.Context, page, pageSize int) LoginHistoryView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	entries, err := h.env.Backend.LoginHistory(ctx)
	if err != nil {
		return LoginHistoryView{
			Entries:  []portal.LoginHistoryEntry{},
			Page:     1,
			Pages:    1,
			PageSize: pageSize,
			Message:  h.env.LoadFailed(ctx, err, i18n.HistoryLoadFailed),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoginAt.After(entries[j].LoginAt.Time)
	})

	pages := (len(entries) + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(entries))

	return LoginHistoryView{
		Entries:  orEmpty(entries[start:end]),
		Page:     page,
		Pages:    pages,
		PageSize: pageSize,
		Total:    len(entries),
	}
}
