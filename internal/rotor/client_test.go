package rotor

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
)

// fakeRotctld accepts one connection and answers rotctld-style commands.
func fakeRotctld(t *testing.T, handle func(cmd string, w *bufio.Writer)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		rd := bufio.NewReader(conn)
		wr := bufio.NewWriter(conn)
		for {
			line, err := rd.ReadString('\n')
			if err != nil {
				return
			}
			handle(strings.TrimRight(line, "\r\n"), wr)
			wr.Flush()
		}
	}()

	return ln.Addr().String()
}

func TestPositionParsesReply(t *testing.T) {
	addr := fakeRotctld(t, func(cmd string, w *bufio.Writer) {
		if cmd == "p" {
			w.WriteString("145.50\n30.25\n")
		}
	})

	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	az, el, err := c.Position(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if az != 145.50 || el != 30.25 {
		t.Errorf("position = %.2f/%.2f, want 145.50/30.25", az, el)
	}
}

func TestPointSendsCommand(t *testing.T) {
	cmds := make(chan string, 1)
	addr := fakeRotctld(t, func(cmd string, w *bufio.Writer) {
		cmds <- cmd
		w.WriteString("RPRT 0\n")
	})

	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Point(context.Background(), 180.5, 45.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := <-cmds; got != "P 180.50 45.25" {
		t.Errorf("sent command %q, want %q", got, "P 180.50 45.25")
	}
}

func TestPointClampsElevation(t *testing.T) {
	cmds := make(chan string, 1)
	addr := fakeRotctld(t, func(cmd string, w *bufio.Writer) {
		cmds <- cmd
		w.WriteString("RPRT 0\n")
	})

	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Point(context.Background(), 90, -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := <-cmds; got != "P 90.00 0.00" {
		t.Errorf("sent command %q, want elevation clamped to 0", got)
	}
}

func TestPointRejectedByRotor(t *testing.T) {
	addr := fakeRotctld(t, func(cmd string, w *bufio.Writer) {
		w.WriteString("RPRT -1\n")
	})

	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	err = c.Point(context.Background(), 10, 10)
	if err == nil {
		t.Fatal("expected error for RPRT -1, got nil")
	}
	if !strings.Contains(err.Error(), "RPRT -1") {
		t.Errorf("error should carry the rotor code, got: %v", err)
	}
}

func TestPositionGarbageReply(t *testing.T) {
	addr := fakeRotctld(t, func(cmd string, w *bufio.Writer) {
		w.WriteString("not-a-number\n30.0\n")
	})

	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if _, _, err := c.Position(context.Background()); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestDialFailure(t *testing.T) {
	// Port 1 on localhost is almost certainly closed.
	_, err := Dial(context.Background(), "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
}
