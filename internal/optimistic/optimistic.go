// Package optimistic applies a local change before the remote call confirms it.
package optimistic

import "context"

// Command is a reversible local mutation.
type Command struct {
	Apply func()
	Undo  func()
}

// Run applies cmd, then calls confirm. When confirm fails the command is undone and
// the confirm error is returned.
func Run(ctx context.Context, cmd Command, confirm func(ctx context.Context) error) error {
	cmd.Apply()
	if err := confirm(ctx); err != nil {
		cmd.Undo()
		return err
	}
	return nil
}

// Set returns a command that flips *v to next and restores the previous value on undo.
func Set[T any](v *T, next T) Command {
	prev := *v
	return Command{
		Apply: func() { *v = next },
		Undo:  func() { *v = prev },
	}
}
