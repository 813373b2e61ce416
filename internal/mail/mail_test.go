package mail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/kussetech/internal/config"
)

// fakeSMTP accepts one session and sends the DATA payload on the returned
// channel.
func fakeSMTP(t *testing.T) (host string, port int, data <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		reply := func(line string) { conn.Write([]byte(line + "\r\n")) }

		reply("220 localhost ESMTP")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 localhost")
			case strings.HasPrefix(cmd, "DATA"):
				reply("354 go ahead")
				var b strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					b.WriteString(l)
				}
				out <- b.String()
				reply("250 queued")
			case strings.HasPrefix(cmd, "QUIT"):
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()

	h, p, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(p)
	require.NoError(t, err)
	return h, portNum, out
}

func TestSMTPSenderDelivers(t *testing.T) {
	host, port, data := fakeSMTP(t)

	cfg := config.Defaults(config.Development)
	cfg.Mail = config.Mail{Host: host, Port: port, Sender: "site@kussetech.com"}
	cfg.ContactEmail = "owner@kussetech.com"

	sender := NewSender(cfg)
	require.IsType(t, &SMTPSender{}, sender)

	err := sender.Send(context.Background(), Message{Name: "Ada", Email: "ada@example.com", Message: "Hello"})
	require.NoError(t, err)

	select {
	case body := <-data:
		assert.Contains(t, body, "To: owner@kussetech.com\r\n")
		assert.Contains(t, body, "From: site@kussetech.com\r\n")
		assert.Contains(t, body, "Reply-To: ada@example.com\r\n")
		assert.Contains(t, body, "Subject: Portfolio Contact: Ada\r\n")
		assert.Contains(t, body, "Hello")
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSMTPSenderDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	cfg := config.Defaults(config.Development)
	cfg.Mail = config.Mail{Host: "127.0.0.1", Port: addr.Port}
	cfg.OutboundTimeout = time.Second

	err = NewSender(cfg).Send(context.Background(), Message{Name: "Ada"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}

func TestDisabledSender(t *testing.T) {
	err := NewSender(config.Defaults(config.Testing)).Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestComposeStripsHeaderInjection(t *testing.T) {
	raw := string(Compose("a@x", "b@x", Message{
		Name:  "Eve\r\nBcc: victim@example.com",
		Email: "eve@example.com\nCc: other@example.com",
	}))

	headers, _, _ := strings.Cut(raw, "\r\n\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.NotContains(t, headers, "\nCc:")
	assert.Contains(t, headers, "Subject: Portfolio Contact: Eve  Bcc: victim@example.com")
}
