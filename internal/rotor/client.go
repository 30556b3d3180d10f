// Package rotor talks to a rotctld-compatible antenna rotor controller over
// TCP. The protocol is line-oriented: "p\n" queries the current position
// (two lines, azimuth then elevation), "P <az> <el>\n" points the rotor.
package rotor

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const ioTimeout = 5 * time.Second

// Client is a connection to a rotctld daemon.
type Client struct {
	conn net.Conn
	rd   *bufio.Reader
}

// Dial connects to a rotctld daemon at addr (host:port).
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to rotor at %s: %w", addr, err)
	}
	return &Client{conn: conn, rd: bufio.NewReader(conn)}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Position queries the rotor's current azimuth and elevation in degrees.
func (c *Client) Position(ctx context.Context) (az, el float64, err error) {
	if err := c.setDeadline(ctx); err != nil {
		return 0, 0, err
	}

	if _, err := fmt.Fprintf(c.conn, "p\n"); err != nil {
		return 0, 0, fmt.Errorf("querying rotor position: %w", err)
	}

	azLine, err := c.readLine()
	if err != nil {
		return 0, 0, fmt.Errorf("reading azimuth: %w", err)
	}
	elLine, err := c.readLine()
	if err != nil {
		return 0, 0, fmt.Errorf("reading elevation: %w", err)
	}

	az, err = strconv.ParseFloat(azLine, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid azimuth %q from rotor", azLine)
	}
	el, err = strconv.ParseFloat(elLine, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid elevation %q from rotor", elLine)
	}
	return az, el, nil
}

// Point commands the rotor to the given azimuth and elevation in degrees.
// Elevation is clamped to the rotor's mechanical range before sending.
func (c *Client) Point(ctx context.Context, az, el float64) error {
	if el < 0 {
		el = 0
	}
	if el > 90 {
		el = 90
	}

	if err := c.setDeadline(ctx); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(c.conn, "P %.2f %.2f\n", az, el); err != nil {
		return fmt.Errorf("pointing rotor: %w", err)
	}

	// rotctld acknowledges set commands with "RPRT <code>".
	line, err := c.readLine()
	if err != nil {
		return fmt.Errorf("reading rotor reply: %w", err)
	}
	if code, ok := strings.CutPrefix(line, "RPRT "); ok && code != "0" {
		return fmt.Errorf("rotor rejected command: RPRT %s", code)
	}
	return nil
}

func (c *Client) readLine() (string, error) {
	line, err := c.rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Client) setDeadline(ctx context.Context) error {
	deadline := time.Now().Add(ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("setting rotor deadline: %w", err)
	}
	return nil
}
