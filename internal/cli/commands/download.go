package commands

import (
	"SkillHub/internal/config"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

type downloadCmd struct{}

func (downloadCmd) Name() string        { return "download" }
func (downloadCmd) Description() string { return "Скачать zip-архив skill" }
func (downloadCmd) Usage() string       { return "download <id> [output]" }
func (downloadCmd) Group() string       { return GroupCatalog }

func (downloadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	id := args[0]
	c, err := newClient(cfg, false)
	if err != nil {
		return err
	}

	// пишем во временный файл рядом, имя узнаём только из ответа
	dir := "."
	if len(args) == 2 {
		dir = filepath.Dir(args[1])
	}
	tmp, err := os.CreateTemp(dir, ".skillctl-*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	filename, err := c.Download(ctx, "/api/skills/"+url.PathEscape(id)+"/download", tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	out := id + ".zip"
	switch {
	case len(args) == 2:
		out = args[1]
	case filename != "":
		out = filepath.Base(filename)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Saved %s\n", out)
	return nil
}

func init() {
	RegisterCmd(downloadCmd{})
}
