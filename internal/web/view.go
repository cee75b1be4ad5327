package web

import (
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
)

type statView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type authorView struct {
	Nickname  string `json:"nickname"`
	Handle    string `json:"handle,omitempty"`
	Avatar    string `json:"avatar"`
	Signature string `json:"signature,omitempty"`
}

type mediaView struct {
	Author     authorView `json:"author"`
	Caption    string     `json:"caption"`
	Video      string     `json:"video"`
	Statistics []statView `json:"statistics"`
}

// stateView is what the page template and /api/state render.
type stateView struct {
	InputURL     string     `json:"inputUrl"`
	Phase        string     `json:"phase"`
	Loading      bool       `json:"loading"`
	Media        *mediaView `json:"media"`
	DownloadLink string     `json:"downloadLink,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

func newStateView(st controller.State) stateView {
	v := stateView{
		InputURL:     st.InputURL,
		Phase:        st.Phase.String(),
		Loading:      st.Phase == controller.PhaseLoading,
		DownloadLink: st.DownloadLink,
		ErrorMessage: st.ErrorMessage,
	}
	if st.Phase == controller.PhaseSuccess && st.Media != nil {
		v.Media = newMediaView(st.Media)
	}
	return v
}

func newMediaView(m *domain.ResolvedMedia) *mediaView {
	stats := []statView{
		{Label: "Likes", Value: m.Statistics.Likes.String()},
		{Label: "Comments", Value: m.Statistics.Comments.String()},
		{Label: "Shares", Value: m.Statistics.Shares.String()},
		{Label: "Plays", Value: m.Statistics.Plays.String()},
	}
	if m.Statistics.Saves != nil {
		stats = append(stats, statView{Label: "Saves", Value: m.Statistics.Saves.String()})
	}
	return &mediaView{
		Author: authorView{
			Nickname:  m.Author.Nickname,
			Handle:    m.Author.Handle,
			Avatar:    m.Author.Avatar,
			Signature: m.Author.Signature,
		},
		Caption:    m.Caption,
		Video:      m.Video,
		Statistics: stats,
	}
}

type historyItem struct {
	InputURL   string    `json:"inputUrl"`
	Outcome    string    `json:"outcome"`
	HTTPStatus int       `json:"httpStatus,omitempty"`
	Stale      bool      `json:"stale"`
	DurationMS int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}
