package controllerimpl

import (
	"context"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
)

// Download hands the resolved link to nav. Without a link nav is never called.
func (c *ControllerImpl) Download(ctx context.Context, nav controller.Navigator) error {
	c.mu.Lock()
	link := c.state.DownloadLink
	if link == "" || nav == nil {
		c.state.ErrorMessage = controller.MsgInvalidLink
		c.mu.Unlock()
		c.logger.Warn("Download requested without a link", "session", c.key)
		return apperrors.WrapWithCode(controller.ErrInvalidDownloadLink, apperrors.CodeDownload, "download precondition failed")
	}
	c.mu.Unlock()

	if err := nav.Navigate(ctx, link); err != nil {
		c.logger.Error("Navigation failed", "session", c.key, "link", link, "error", err)
		c.mu.Lock()
		if c.state.DownloadLink == link {
			c.state.ErrorMessage = controller.MsgDownloadNotStart
		}
		c.mu.Unlock()
		return apperrors.WrapWithCode(err, apperrors.CodeDownload, "navigation failed")
	}

	c.logger.Info("Download started", "session", c.key)
	return nil
}
