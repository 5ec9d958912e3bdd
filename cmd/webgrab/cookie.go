package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/webgrab/webgrab/pkg/cookies"
)

type CookieCmd struct {
	Name string `arg:"" help:"Name of the cookie to look up."`
}

func (c *CookieCmd) Run(logger *zap.Logger, globals *Globals) error {
	value, err := cookies.NewFileStore(globals.CookieFile).Lookup(c.Name)
	if errors.Is(err, cookies.ErrNotFound) {
		// Absent keys are not fatal; only file read failures are.
		logger.Warn("Cookie not found", zap.String("name", c.Name))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}
