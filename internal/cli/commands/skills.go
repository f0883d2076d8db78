package commands

import (
	"SkillHub/internal/config"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// skillDTO — поля skill, которые показывает CLI.
type skillDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AuthorName  string    `json:"authorName"`
	Status      string    `json:"status"`
	Downloads   int64     `json:"downloads"`
	ImageKeys   []string  `json:"imageKeys"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       int64     `json:"likes"`
	Liked       bool      `json:"liked"`
}

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "Каталог одобренных skills (с поиском)" }
func (listCmd) Usage() string       { return "list [query]" }
func (listCmd) Group() string       { return GroupCatalog }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	c, err := newClient(cfg, false)
	if err != nil {
		return err
	}
	path := "/api/skills"
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	var resp struct {
		Skills []skillDTO `json:"skills"`
	}
	if err := c.GetJSON(ctx, path, &resp); err != nil {
		return err
	}
	if len(resp.Skills) == 0 {
		fmt.Fprintln(Out, "Ничего не найдено")
		return nil
	}
	for _, s := range resp.Skills {
		fmt.Fprintf(Out, "- %s  %s  by %s  ♥%d  ↓%d\n", s.ID, s.Name, s.AuthorName, s.Likes, s.Downloads)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(resp.Skills))
	return nil
}

type showCmd struct{}

func (showCmd) Name() string        { return "show" }
func (showCmd) Description() string { return "Карточка skill" }
func (showCmd) Usage() string       { return "show <id>" }
func (showCmd) Group() string       { return GroupCatalog }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := newClient(cfg, false)
	if err != nil {
		return err
	}
	var resp struct {
		Skill skillDTO `json:"skill"`
	}
	if err := c.GetJSON(ctx, "/api/skills/"+url.PathEscape(args[0]), &resp); err != nil {
		return err
	}
	s := resp.Skill
	fmt.Fprintf(Out, "%s\n", s.Name)
	fmt.Fprintf(Out, "  id:        %s\n", s.ID)
	fmt.Fprintf(Out, "  author:    %s\n", s.AuthorName)
	fmt.Fprintf(Out, "  status:    %s\n", s.Status)
	fmt.Fprintf(Out, "  created:   %s\n", s.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(Out, "  likes:     %d (liked: %t)\n", s.Likes, s.Liked)
	fmt.Fprintf(Out, "  downloads: %d\n", s.Downloads)
	fmt.Fprintf(Out, "  images:    %d\n", len(s.ImageKeys))
	fmt.Fprintf(Out, "\n%s\n", s.Description)
	return nil
}

type likeCmd struct{}

func (likeCmd) Name() string        { return "like" }
func (likeCmd) Description() string { return "Поставить или снять лайк" }
func (likeCmd) Usage() string       { return "like <id>" }
func (likeCmd) Group() string       { return GroupCatalog }

func (likeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := newClient(cfg, true)
	if err != nil {
		return err
	}
	var resp struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"count"`
	}
	if err := c.SendJSON(ctx, "POST", "/api/skills/"+url.PathEscape(args[0])+"/like", nil, &resp); err != nil {
		return err
	}
	if resp.Liked {
		fmt.Fprintf(Out, "Liked (%d)\n", resp.Count)
	} else {
		fmt.Fprintf(Out, "Unliked (%d)\n", resp.Count)
	}
	return nil
}

func init() {
	RegisterCmd(listCmd{})
	RegisterCmd(showCmd{})
	RegisterCmd(likeCmd{})
}
