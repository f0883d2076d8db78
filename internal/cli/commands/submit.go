package commands

import (
	"SkillHub/internal/cli/api"
	"SkillHub/internal/config"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

type uploadResult struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

type submitCmd struct{}

func (submitCmd) Name() string        { return "submit" }
func (submitCmd) Description() string { return "Загрузить архив и изображения, отправить skill на модерацию" }
func (submitCmd) Usage() string       { return "submit <name> <description> <zip> [image...]" }
func (submitCmd) Group() string       { return GroupPublishing }

func (submitCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	name, desc, zipPath, images := args[0], args[1], args[2], args[3:]
	if len(images) > 5 {
		return fmt.Errorf("too many images: %d (max 5)", len(images))
	}

	c, err := newClient(cfg, true)
	if err != nil {
		return err
	}

	archive, err := uploadFile(ctx, c, "/api/upload", "file", zipPath, "application/zip")
	if err != nil {
		return fmt.Errorf("upload %s: %w", zipPath, err)
	}

	imageKeys := make([]string, 0, len(images))
	for _, p := range images {
		res, err := uploadFile(ctx, c, "/api/upload-image", "image", p, "")
		if err != nil {
			return fmt.Errorf("upload %s: %w", p, err)
		}
		imageKeys = append(imageKeys, res.Key)
	}

	var resp struct {
		Skill skillDTO `json:"skill"`
	}
	payload := map[string]any{
		"name":        name,
		"description": desc,
		"fileKey":     archive.Key,
		"fileSize":    archive.Size,
		"imageKeys":   imageKeys,
	}
	if err := c.SendJSON(ctx, http.MethodPost, "/api/skills", payload, &resp); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Submitted %s [%s], status: %s\n", resp.Skill.Name, resp.Skill.ID, resp.Skill.Status)
	return nil
}

// uploadFile читает файл с диска и отправляет его одной частью формы.
// Пустой contentType — определяем по содержимому.
func uploadFile(ctx context.Context, c *api.Client, path, field, file, contentType string) (uploadResult, error) {
	var res uploadResult
	data, err := os.ReadFile(file)
	if err != nil {
		return res, err
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	part := api.FilePart{Field: field, Filename: filepath.Base(file), ContentType: contentType, Data: data}
	err = c.PostMultipart(ctx, http.MethodPost, path, nil, []api.FilePart{part}, &res)
	return res, err
}

func init() {
	RegisterCmd(submitCmd{})
}
