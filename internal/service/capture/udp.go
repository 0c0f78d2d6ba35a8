package capture

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"

	"posecam/internal/logger"

	"gocv.io/x/gocv"
)

var (
	jpegHeader = []byte{0xFF, 0xD8}
	jpegFooter = []byte{0xFF, 0xD9}
)

// UDPSource reassembles JPEG frames streamed over UDP by network cameras.
// A frame starts with a packet beginning with the JPEG SOI marker and ends
// with a packet ending with the EOI marker.
type UDPSource struct {
	conn    *net.UDPConn
	timeout time.Duration
	packet  []byte
	frame   bytes.Buffer
	logger  *logger.Logger
}

// ListenUDP starts listening for camera packets on port.
func ListenUDP(port string, timeout time.Duration, logger *logger.Logger) (*UDPSource, error) {
	addr, err := net.ResolveUDPAddr("udp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP port %s: %w", port, err)
	}

	logger.Info("UDP camera source listening on %s", conn.LocalAddr())
	return &UDPSource{
		conn:    conn,
		timeout: timeout,
		packet:  make([]byte, 65536),
		logger:  logger,
	}, nil
}

// Addr returns the local listening address.
func (s *UDPSource) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Read blocks until a complete JPEG frame arrives and decodes it into frame.
// When no frame completes within the read timeout, frame is left empty and
// Read still reports success.
func (s *UDPSource) Read(frame *gocv.Mat) bool {
	deadline := time.Now().Add(s.timeout)
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		s.logger.Error("Failed to set UDP read deadline: %v", err)
		return false
	}

	for {
		n, _, err := s.conn.ReadFromUDP(s.packet)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				clearMat(frame)
				return true
			}
			s.logger.Error("Error reading UDP packet: %v", err)
			return false
		}

		data := s.packet[:n]
		if bytes.HasPrefix(data, jpegHeader) {
			s.frame.Reset()
		}
		s.frame.Write(data)

		if !bytes.HasSuffix(data, jpegFooter) {
			continue
		}

		decoded, err := gocv.IMDecode(s.frame.Bytes(), gocv.IMReadColor)
		s.frame.Reset()
		if err != nil {
			s.logger.Warning("Dropping undecodable UDP frame: %v", err)
			clearMat(frame)
			return true
		}
		if decoded.Empty() {
			decoded.Close()
			s.logger.Warning("Dropping empty UDP frame")
			clearMat(frame)
			return true
		}

		err = decoded.CopyTo(frame)
		decoded.Close()
		if err != nil {
			s.logger.Warning("Dropping UDP frame: %v", err)
			clearMat(frame)
		}
		return true
	}
}

// Close stops listening.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}

func clearMat(frame *gocv.Mat) {
	frame.Close()
	*frame = gocv.NewMat()
}
