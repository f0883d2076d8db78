package commands

import (
	"SkillHub/internal/config"
	"context"
	"fmt"
	"net/http"
	"time"
)

type pendingCmd struct{}

func (pendingCmd) Name() string        { return "pending" }
func (pendingCmd) Description() string { return "Очередь модерации (только admin)" }
func (pendingCmd) Usage() string       { return "pending" }
func (pendingCmd) Group() string       { return GroupModeration }

func (pendingCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := newClient(cfg, true)
	if err != nil {
		return err
	}
	var resp struct {
		Skills []skillDTO `json:"skills"`
	}
	if err := c.GetJSON(ctx, "/api/admin/skills", &resp); err != nil {
		return err
	}
	if len(resp.Skills) == 0 {
		fmt.Fprintln(Out, "Очередь пуста")
		return nil
	}
	for _, s := range resp.Skills {
		fmt.Fprintf(Out, "- %s  %s  by %s  (%s)\n", s.ID, s.Name, s.AuthorName, s.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

type reviewCmd struct{}

func (reviewCmd) Name() string        { return "review" }
func (reviewCmd) Description() string { return "Одобрить или отклонить skill (только admin)" }
func (reviewCmd) Usage() string       { return "review <id> <approved|rejected>" }
func (reviewCmd) Group() string       { return GroupModeration }

func (reviewCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	status := args[1]
	if status != "approved" && status != "rejected" {
		return ErrUsage
	}
	c, err := newClient(cfg, true)
	if err != nil {
		return err
	}
	var resp struct {
		Skill skillDTO `json:"skill"`
	}
	payload := map[string]string{"id": args[0], "status": status}
	if err := c.SendJSON(ctx, http.MethodPatch, "/api/admin/skills", payload, &resp); err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s [%s] -> %s\n", resp.Skill.Name, resp.Skill.ID, resp.Skill.Status)
	return nil
}

func init() {
	RegisterCmd(pendingCmd{})
	RegisterCmd(reviewCmd{})
}
