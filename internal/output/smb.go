package output

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"

	"github.com/Semirss/betebrana/internal/config"
)

const smbDialTimeout = 10 * time.Second

// SMBHandler uploads converted text files to an SMB/CIFS network share.
type SMBHandler struct {
	server    string
	share     string
	username  string
	password  string
	directory string
}

// NewSMBHandler creates an SMB delivery handler.
func NewSMBHandler(cfg config.SMBConfig) *SMBHandler {
	return &SMBHandler{
		server:    cfg.Server,
		share:     cfg.Share,
		username:  cfg.Username,
		password:  cfg.Password,
		directory: cfg.Directory,
	}
}

func (h *SMBHandler) Name() string { return "smb" }

func (h *SMBHandler) Available() bool {
	return h.server != "" && h.share != ""
}

// Deliver uploads one text file to the share.
func (h *SMBHandler) Deliver(_ context.Context, textPath string) error {
	server := strings.TrimPrefix(h.server, "//")
	if !strings.Contains(server, ":") {
		server += ":445"
	}

	conn, err := net.DialTimeout("tcp", server, smbDialTimeout)
	if err != nil {
		return fmt.Errorf("SMB connect: %w", err)
	}
	defer conn.Close()

	d := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     h.username,
			Password: h.password,
		},
	}

	session, err := d.Dial(conn)
	if err != nil {
		return fmt.Errorf("SMB authenticate: %w", err)
	}
	defer session.Logoff()

	share, err := session.Mount(h.share)
	if err != nil {
		return fmt.Errorf("SMB mount share: %w", err)
	}
	defer share.Umount()

	if h.directory != "" {
		share.MkdirAll(h.directory, 0o755)
	}

	name := filepath.Base(textPath)
	remote := name
	if h.directory != "" {
		remote = h.directory + "/" + name
	}

	src, err := os.Open(textPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	f, err := share.Create(remote)
	if err != nil {
		return fmt.Errorf("SMB create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return fmt.Errorf("SMB write: %w", err)
	}
	return nil
}
