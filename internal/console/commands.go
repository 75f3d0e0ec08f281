package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/swimset/internal/app"
	"github.com/bft-labs/swimset/internal/domain"
)

// commands builds a fresh command tree. A new tree per line keeps flag and
// help state from leaking between commands.
func (c *Console) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "swimset>",
		Short:         "Swim repeat timing console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(c.out)
	root.SetErr(c.out)

	root.AddCommand(
		c.laneCommand("start", "Start an athlete's timer", func(e *app.Engine, id domain.AthleteID) error {
			return e.StartAthlete(id)
		}),
		c.laneCommand("pause", "Pause a running athlete", func(e *app.Engine, id domain.AthleteID) error {
			return e.PauseAthlete(id)
		}),
		c.laneCommand("finish", "Finish an athlete without a rank", func(e *app.Engine, id domain.AthleteID) error {
			return e.FinishAthlete(id)
		}),
		c.laneCommand("queue", "Capture an athlete's time into the finish queue", func(e *app.Engine, id domain.AthleteID) error {
			return e.QueueFinish(id)
		}),
		c.laneCommand("dequeue", "Remove an athlete from the finish queue", func(e *app.Engine, id domain.AthleteID) error {
			return e.DequeueFinish(id)
		}),
		c.splitCommand(),
		c.simpleCommand("confirm", "Confirm the finish queue and assign ranks", func(e *app.Engine) error {
			return e.ConfirmFinishes()
		}),
		c.simpleCommand("startall", "Start every athlete", func(e *app.Engine) error {
			return e.StartAll()
		}),
		c.simpleCommand("reset", "Reset every athlete and cancel rest", func(e *app.Engine) error {
			e.ResetAll()
			return nil
		}),
		c.nextCommand(),
		c.simpleCommand("wrap", "Go back to the first session after the final set", func(e *app.Engine) error {
			return e.ConfirmWrap()
		}),
		c.viewCommand("status", "Show session, athletes, queue and rest", writeStatus),
		c.viewCommand("results", "Show results grouped by session and set", writeResults),
		c.athleteCommand(),
		c.groupCommand(),
		c.sessionCommand(),
		c.recordsCommand(),
		c.saveCommand(),
		c.loadCommand(),
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the console",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c.quit = true
				return nil
			},
		},
	)
	return root
}

func (c *Console) laneCommand(name, short string, fn func(*app.Engine, domain.AthleteID) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <lane>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lane, err := parseLane(args[0])
			if err != nil {
				return err
			}
			return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
				a, err := e.AthleteByLane(lane)
				if err != nil {
					return err
				}
				return fn(e, a.ID)
			})
		},
	}
}

func (c *Console) simpleCommand(name, short string, fn func(*app.Engine) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
				return fn(e)
			})
		},
	}
}

func (c *Console) viewCommand(name, short string, fn func(*app.Engine, *strings.Builder)) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
				fn(e, w)
				return nil
			})
		},
	}
}

func (c *Console) splitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <lane> [meters]",
		Short: "Record a split (defaults to half the session distance)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lane, err := parseLane(args[0])
			if err != nil {
				return err
			}
			distance := 0
			if len(args) == 2 {
				if distance, err = parsePositive("meters", args[1]); err != nil {
					return err
				}
			}
			return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
				a, err := e.AthleteByLane(lane)
				if err != nil {
					return err
				}
				if distance == 0 {
					sess, _ := e.CurrentSession()
					distance = max(sess.Distance/2, 1)
				}
				if err := e.RecordSplit(a.ID, distance); err != nil {
					return err
				}
				a, err = e.Athlete(a.ID)
				if err != nil {
					return err
				}
				s := a.Splits[len(a.Splits)-1]
				fmt.Fprintf(w, "%s %dm %s\n", a.Name, s.Distance, s.Time)
				return nil
			})
		},
	}
}

func (c *Console) nextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Advance to the next set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
				if err := e.NextSet(); err != nil {
					return err
				}
				sess, _ := e.CurrentSession()
				fmt.Fprintf(w, "%s set %d/%d\n", sess.Name, sess.CurrentSet, sess.TotalSets)
				return nil
			})
		},
	}
}

func (c *Console) athleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "athlete",
		Short: "Add, remove or move athletes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add an athlete to the first group",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
					a, err := e.AddAthlete(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "lane %d: %s\n", a.Lane, a.Name)
					return nil
				})
			},
		},
		c.laneCommand("rm", "Remove an athlete", func(e *app.Engine, id domain.AthleteID) error {
			return e.RemoveAthlete(id)
		}),
		&cobra.Command{
			Use:   "rename <lane> <name>",
			Short: "Rename an athlete",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				lane, err := parseLane(args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
					a, err := e.AthleteByLane(lane)
					if err != nil {
						return err
					}
					return e.RenameAthlete(a.ID, name)
				})
			},
		},
		&cobra.Command{
			Use:   "move <lane> <group>",
			Short: "Move an athlete to another group",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				lane, err := parseLane(args[0])
				if err != nil {
					return err
				}
				key := strings.Join(args[1:], " ")
				return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
					a, err := e.AthleteByLane(lane)
					if err != nil {
						return err
					}
					g, err := e.FindGroup(key)
					if err != nil {
						return err
					}
					return e.MoveAthlete(a.ID, g.ID)
				})
			},
		},
	)
	return cmd
}

func (c *Console) groupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Add or remove groups",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a group",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
					g, err := e.AddGroup(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "group %s (%s)\n", g.Name, g.Tag)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm <group>",
			Short: "Remove a group, moving its athletes to the first group",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := strings.Join(args, " ")
				return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
					g, err := e.FindGroup(key)
					if err != nil {
						return err
					}
					return e.RemoveGroup(g.ID)
				})
			},
		},
	)
	return cmd
}

func (c *Console) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Add, remove, select or edit sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add",
			Short: "Append a session with default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
					e.AddSession()
					fmt.Fprintf(w, "session %d added\n", len(e.Sessions()))
					return nil
				})
			},
		},
		c.sessionIndexCommand("rm", "Remove a session", func(e *app.Engine, s domain.Session) error {
			return e.RemoveSession(s.ID)
		}),
		c.sessionIndexCommand("select", "Make a session current", func(e *app.Engine, s domain.Session) error {
			return e.SelectSession(s.ID)
		}),
		&cobra.Command{
			Use:   "set key=value...",
			Short: "Edit the current session (name, distance, stroke, sets, set, rest, mode, auto, target)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				patch, err := parsePatch(args)
				if err != nil {
					return err
				}
				return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
					sess, _ := e.CurrentSession()
					_, err := e.UpdateSession(sess.ID, patch)
					return err
				})
			},
		},
	)
	return cmd
}

// sessionIndexCommand addresses a session by its 1-based position.
func (c *Console) sessionIndexCommand(name, short string, fn func(*app.Engine, domain.Session) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <number>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePositive("session", args[0])
			if err != nil {
				return err
			}
			return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
				sessions := e.Sessions()
				if n > len(sessions) {
					return fmt.Errorf("session %d: %w", n, domain.ErrNotFound)
				}
				return fn(e, sessions[n-1])
			})
		},
	}
}

func (c *Console) recordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Delete records",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete one record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.do(cmd.Context(), func(e *app.Engine, _ *strings.Builder) error {
					return e.DeleteRecord(domain.RecordID(args[0]))
				})
			},
		},
		c.simpleCommand("clear", "Delete every record", func(e *app.Engine) error {
			e.ClearRecords()
			return nil
		}),
	)
	return cmd
}

func (c *Console) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write a snapshot to the snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.store == nil {
				return errNoStore
			}
			var snap domain.Snapshot
			err := c.exec.Do(cmd.Context(), func(e *app.Engine) error {
				snap = e.Export()
				return nil
			})
			if err != nil {
				return err
			}
			if err := c.store.Save(cmd.Context(), snap); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			fmt.Fprintf(c.out, "saved %d athletes, %d records\n", len(snap.Athletes), len(snap.Records))
			return nil
		},
	}
}

func (c *Console) loadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Replace state with the snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.store == nil {
				return errNoStore
			}
			snap, err := c.store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			return c.do(cmd.Context(), func(e *app.Engine, w *strings.Builder) error {
				if err := e.Import(snap); err != nil {
					return err
				}
				fmt.Fprintf(w, "loaded %d athletes, %d records\n", len(e.Athletes()), len(e.Records()))
				return nil
			})
		},
	}
}

func parseLane(s string) (int, error) {
	return parsePositive("lane", s)
}

func parsePositive(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s %q: want a positive number: %w", what, s, domain.ErrInvalidInput)
	}
	return n, nil
}

// parsePatch turns key=value arguments into a session patch. Underscores in
// the name value stand for spaces.
func parsePatch(args []string) (app.SessionPatch, error) {
	var p app.SessionPatch
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return p, fmt.Errorf("%q: want key=value: %w", arg, domain.ErrInvalidInput)
		}
		switch strings.ToLower(key) {
		case "name":
			name := strings.ReplaceAll(value, "_", " ")
			p.Name = &name
		case "distance":
			n, err := parsePositive(key, value)
			if err != nil {
				return p, err
			}
			p.Distance = &n
		case "stroke":
			st, err := domain.ParseStroke(value)
			if err != nil {
				return p, err
			}
			p.Stroke = &st
		case "sets":
			n, err := parsePositive(key, value)
			if err != nil {
				return p, err
			}
			p.TotalSets = &n
		case "set":
			n, err := parsePositive(key, value)
			if err != nil {
				return p, err
			}
			p.CurrentSet = &n
		case "rest":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return p, fmt.Errorf("rest %q: want seconds: %w", value, domain.ErrInvalidInput)
			}
			p.RestSeconds = &n
		case "mode":
			m, err := domain.ParseRestMode(value)
			if err != nil {
				return p, err
			}
			p.RestMode = &m
		case "auto":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return p, fmt.Errorf("auto %q: %w", value, domain.ErrInvalidInput)
			}
			p.RestAutoStart = &b
		case "target":
			if value == "none" {
				p.ClearTarget = true
				continue
			}
			t, err := domain.ParseCentis(value)
			if err != nil {
				return p, err
			}
			p.TargetTime = &t
		default:
			return p, fmt.Errorf("unknown session field %q: %w", key, domain.ErrInvalidInput)
		}
	}
	return p, nil
}

var _ Executor = (*app.Runner)(nil)
