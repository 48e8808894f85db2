package command

import (
	"github.com/urfave/cli/v2"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Description: "Merges defaults, the config file, RWMAP_ environment variables\n" +
			"and flags in that order, validates the result, and prints it.",
		Flags: append(configFlags(),
			&cli.BoolFlag{
				Name:  "overrides",
				Usage: "Print only the values set by the config file, environment or flags",
			},
		),
		Action: configShow,
	}
}

func configShow(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("overrides") {
		return printResult(c, loader.All())
	}
	return printResult(c, cfg)
}
