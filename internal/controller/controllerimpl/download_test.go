package controllerimpl

import (
	"context"
	"errors"
	"testing"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	mock_controller "github.com/orgball2608/tiktok-downloader/internal/controller/mocks"
	mock_tiklydown "github.com/orgball2608/tiktok-downloader/internal/tiklydown/mocks"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
	"go.uber.org/mock/gomock"
)

func TestDownloadWithoutLinkNeverNavigates(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mock_controller.NewMockNavigator(ctrl)
	nav.EXPECT().Navigate(gomock.Any(), gomock.Any()).Times(0)

	c := newTestController(t, nil)
	err := c.Download(context.Background(), nav)

	if !errors.Is(err, controller.ErrInvalidDownloadLink) {
		t.Fatalf("error = %v, want ErrInvalidDownloadLink", err)
	}
	if apperrors.GetCode(err) != apperrors.CodeDownload {
		t.Errorf("code = %q", apperrors.GetCode(err))
	}
	if msg := c.State().ErrorMessage; msg != controller.MsgInvalidLink {
		t.Errorf("message = %q", msg)
	}
}

func TestDownloadAfterFailureNeverNavigates(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(nil, errors.New("down"))
	nav := mock_controller.NewMockNavigator(ctrl)
	nav.EXPECT().Navigate(gomock.Any(), gomock.Any()).Times(0)

	c := newTestController(t, resolver)
	c.Submit(context.Background(), videoURL)
	if err := c.Download(context.Background(), nav); !errors.Is(err, controller.ErrInvalidDownloadLink) {
		t.Errorf("error = %v", err)
	}
}

func TestDownloadNavigatesToLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(sampleMedia(), nil)
	nav := mock_controller.NewMockNavigator(ctrl)
	nav.EXPECT().Navigate(gomock.Any(), "https://cdn.example/v.mp4").Return(nil).Times(1)

	c := newTestController(t, resolver)
	c.Submit(context.Background(), videoURL)
	if err := c.Download(context.Background(), nav); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if st := c.State(); st.ErrorMessage != "" || st.Phase != controller.PhaseSuccess {
		t.Errorf("state = %+v", st)
	}
}

func TestDownloadNavigatorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(sampleMedia(), nil)

	c := newTestController(t, resolver)
	c.Submit(context.Background(), videoURL)

	navErr := errors.New("upload rejected")
	err := c.Download(context.Background(), controller.NavigatorFunc(func(context.Context, string) error {
		return navErr
	}))
	if !errors.Is(err, navErr) {
		t.Fatalf("error = %v, want %v", err, navErr)
	}
	if msg := c.State().ErrorMessage; msg != controller.MsgDownloadNotStart {
		t.Errorf("message = %q", msg)
	}
}

func TestDownloadNilNavigator(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(sampleMedia(), nil)

	c := newTestController(t, resolver)
	c.Submit(context.Background(), videoURL)
	if err := c.Download(context.Background(), nil); !errors.Is(err, controller.ErrInvalidDownloadLink) {
		t.Errorf("error = %v", err)
	}
}
