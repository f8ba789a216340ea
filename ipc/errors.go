// SPDX-License-Identifier: Unlicense OR MIT

package ipc

import "fmt"

func errParse(err error) error { return fmt.Errorf("parse error: %w", err) }

func unknownCommand(name string) error { return fmt.Errorf("unknown command: %q", name) }
