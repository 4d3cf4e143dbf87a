package main

import (
	"fmt"

	"github.com/klede-lab/waitlist/internal/domain/mail"
	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startBroadcast(cctx *cli.Context) error {
	s.load()
	defer s.close()

	var message string
	var failed []string
	switch kind := cctx.String("kind"); kind {
	case mail.KindPromotional:
		resp, err := s.adminDomain.SendPromotional(s.ctx, &model.SendPromotionalRequest{
			Message: cctx.String("message"),
		})
		if err != nil {
			return err
		}
		message, failed = resp.Message, resp.FailedEmails

	case mail.KindLaunch:
		resp, err := s.adminDomain.SendLaunchAnnouncement(s.ctx, &model.SendLaunchAnnouncementRequest{})
		if err != nil {
			return err
		}
		message, failed = resp.Message, resp.FailedEmails

	default:
		return fmt.Errorf("unknown email kind %q", kind)
	}

	xcontext.Logger(s.ctx).Infof("%s", message)
	for _, email := range failed {
		xcontext.Logger(s.ctx).Warnf("Failed to send to %s", email)
	}

	return nil
}
