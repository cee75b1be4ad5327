package controller

import (
	"context"
	"errors"

	"github.com/orgball2608/tiktok-downloader/internal/domain"
)

// User-visible messages. Error detail never reaches the user.
const (
	MsgInvalidURL       = "Please enter a valid TikTok video URL."
	MsgFetchFailed      = "An error occurred while fetching the download link."
	MsgStatusFailed     = "Failed to fetch the download link (status %d)."
	MsgNoDownloadLink   = "No download link found."
	MsgInvalidLink      = "Download link is invalid."
	MsgDownloadNotStart = "Could not start the download."
)

var ErrInvalidDownloadLink = errors.New("download link is invalid")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// State is a snapshot of one controller. Media is non-nil only in PhaseSuccess.
type State struct {
	InputURL     string
	Phase        Phase
	Media        *domain.ResolvedMedia
	DownloadLink string
	ErrorMessage string
}

// Navigator hands a media URL to whatever environment hosts the controller.
type Navigator interface {
	Navigate(ctx context.Context, mediaURL string) error
}

type NavigatorFunc func(ctx context.Context, mediaURL string) error

func (f NavigatorFunc) Navigate(ctx context.Context, mediaURL string) error {
	return f(ctx, mediaURL)
}

//go:generate go run go.uber.org/mock/mockgen -source=controller.go -destination=mocks/mock.go
type Controller interface {
	// Submit runs one resolution attempt and returns the settled state.
	// It never panics and never returns an error; failures land in State.
	Submit(ctx context.Context, inputURL string) State
	Download(ctx context.Context, nav Navigator) error
	State() State
}

// Factory builds a fresh controller for a session key.
type Factory func(sessionKey string) Controller
