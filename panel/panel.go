package panel

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"

	"liftsim/config"
	"liftsim/elevio"
	"liftsim/fsm"
	"liftsim/logger"
	"liftsim/network"
)

var Log = logger.GetLogger()

const help = "floor digits then u/d to call, s snapshot, g regenerate, backspace edits, q or esc quits"

// Sender is the part of network.Client the panel drives.
type Sender interface {
	RequestCall(floor int, dirn elevio.Dirn) error
	Regenerate(floors, cars int) error
	RequestSnapshot() error
}

type Panel struct {
	sender     Sender
	cfg        config.Config
	out        io.Writer
	input      Input
	floorCount int
}

func New(sender Sender, cfg config.Config, out io.Writer) *Panel {
	return &Panel{
		sender:     sender,
		cfg:        cfg,
		out:        out,
		floorCount: cfg.FloorCount,
	}
}

// Run reads the keyboard and prints server messages until the user quits, ctx
// ends or the connection drops.
func Run(ctx context.Context, client *network.Client, cfg config.Config, out io.Writer) error {
	keys, err := keyboard.GetKeys(16)
	if err != nil {
		return errors.Wrap(err, "open keyboard")
	}
	defer keyboard.Close()

	p := New(client, cfg, out)
	p.println(help)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-keys:
			if ev.Err != nil {
				return errors.Wrap(ev.Err, "read key")
			}
			if p.HandleKey(ev.Rune, ev.Key) {
				return nil
			}
		case env, ok := <-client.Events():
			if !ok {
				return client.Err()
			}
			p.Show(env)
		case <-client.Done():
			return client.Err()
		}
	}
}

// HandleKey acts on one key press and reports whether the panel should quit.
func (p *Panel) HandleKey(char rune, key keyboard.Key) bool {
	cmd := p.input.Handle(char, key)
	var err error
	switch cmd.Action {
	case ActQuit:
		return true
	case ActCall:
		if err = elevio.ValidateCall(cmd.Floor, cmd.Dirn, p.floorCount); err != nil {
			p.println("rejected: " + err.Error())
			return false
		}
		err = p.sender.RequestCall(cmd.Floor, cmd.Dirn)
	case ActSnapshot:
		err = p.sender.RequestSnapshot()
	case ActRegenerate:
		err = p.sender.Regenerate(p.cfg.FloorCount, p.cfg.CarCount)
	}
	if err != nil {
		Log.Warn().Err(err).Msg("Request to dispatch server failed")
		p.println("failed: " + err.Error())
	}
	return false
}

// Show prints a server message. Snapshots also update the floor count used to
// validate calls before they are sent.
func (p *Panel) Show(env network.Envelope) {
	if env.Type == network.TypeSnapshot {
		var snap fsm.Snapshot
		if err := env.Decode(&snap); err == nil && snap.FloorCount > 0 {
			p.floorCount = snap.FloorCount
		}
	}
	p.println(Describe(env))
}

// The keyboard puts the terminal in raw mode, so lines need an explicit
// carriage return.
func (p *Panel) println(s string) {
	s = strings.TrimRight(s, "\n")
	fmt.Fprint(p.out, strings.ReplaceAll(s, "\n", "\r\n")+"\r\n")
}
