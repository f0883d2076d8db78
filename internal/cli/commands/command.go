package commands

import (
	"SkillHub/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "review <id> <approved|rejected>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Разделы справки в порядке вывода.
const (
	GroupSession    = "Session"
	GroupCatalog    = "Catalog"
	GroupPublishing = "Publishing"
	GroupModeration = "Moderation (admin only)"
	groupOther      = "Other"
)

var groupOrder = []string{GroupSession, GroupCatalog, GroupPublishing, GroupModeration, groupOther}

// Grouped — команда сообщает раздел справки. Команды без него попадают в "Other".
type Grouped interface {
	Group() string
}

func groupOf(c Command) string {
	if g, ok := c.(Grouped); ok && g.Group() != "" {
		return g.Group()
	}
	return groupOther
}

// FormatGlobalUsage собирает справку: команды по разделам, внутри раздела по имени.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("SkillHub CLI: browse, publish and moderate Agent Skills\n\n")
	b.WriteString("Usage:\n  skillctl [--base-url <host:port>] [--https] [--token-file <path>] <command> [args]\n")

	byGroup := map[string][]Command{}
	for _, c := range List() {
		g := groupOf(c)
		byGroup[g] = append(byGroup[g], c)
	}
	for _, g := range groupOrder {
		cmds := byGroup[g]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", g)
		for _, c := range cmds {
			fmt.Fprintf(&b, "  %-46s %s\n", c.Usage(), c.Description())
		}
	}
	b.WriteString("\nRun `skillctl help <command>` for command usage.\n")
	return b.String()
}
