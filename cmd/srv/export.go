package main

import (
	"os"

	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startExport(cctx *cli.Context) error {
	s.load()
	defer s.close()

	resp, err := s.adminDomain.ExportEntries(s.ctx, &model.AdminExportEntriesRequest{})
	if err != nil {
		return err
	}

	output := cctx.String("output")
	if output == "" {
		_, err := os.Stdout.Write(resp.Data)
		return err
	}

	if err := os.WriteFile(output, resp.Data, 0o644); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Exported waitlist entries to %s", output)
	return nil
}
