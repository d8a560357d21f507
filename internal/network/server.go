package network

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/luxigo/dynlist/internal/core"
	"github.com/luxigo/dynlist/internal/utils"
	"github.com/vmihailenco/msgpack/v5"
)

type Server struct {
	CommandHandler *core.CommandHandler
	Port           string

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func NewServer(port int, handler *core.CommandHandler) (*Server, error) {
	if handler == nil || handler.Store == nil {
		return nil, fmt.Errorf("store is not initialized")
	}
	return &Server{
		CommandHandler: handler,
		Port:           strconv.Itoa(port),
		conns:          make(map[net.Conn]struct{}),
	}, nil
}

// Listen binds the configured port, falling back to a random one when it is
// taken.
func (s *Server) Listen() error {
	logger := utils.GetLogger()

	listener, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		logger.Warn("Port " + s.Port + " unavailable. Selecting a random port...")
		listener, err = net.Listen("tcp", ":0")
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	logger.Info("Server is listening on " + listener.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts clients until Close is called.
func (s *Server) Serve() error {
	logger := utils.GetLogger()

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection: " + err.Error())
			continue
		}
		logger.Info("Accepted client: " + conn.RemoteAddr().String())

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.HandleConnection(conn)
		}()
	}
}

// Start listens and serves
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Close stops accepting, drops open clients and waits for their handlers.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// HandleConnection serves requests from one client. Requests are a stream of
// msgpack maps, each answered by one msgpack map.
func (s *Server) HandleConnection(conn net.Conn) {
	logger := utils.GetLogger()
	defer func() {
		logger.Info("Client disconnected: " + conn.RemoteAddr().String())
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	decoder := msgpack.NewDecoder(bufio.NewReader(conn))
	for {
		var request map[string]interface{}
		if err := decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logger.Info("Client closed the connection: " + conn.RemoteAddr().String())
			} else {
				logger.Error("Error reading from client: " + err.Error())
			}
			return
		}

		if command, ok := request["command"].(string); ok {
			if core.IsWriteCommand(command) {
				logger.Debugf("Write %v from %s", request, conn.RemoteAddr())
			} else {
				logger.Debugf("Read %v from %s", request, conn.RemoteAddr())
			}
		}

		response, err := s.CommandHandler.HandleCommand(request)
		if err != nil {
			s.sendError(conn, err.Error())
			continue
		}
		s.sendResponse(conn, response)
	}
}

// sendResponse serializes the response and sends it to the client
func (s *Server) sendResponse(conn net.Conn, response map[string]interface{}) {
	logger := utils.GetLogger()
	data, err := utils.EncodeResponse(response)
	if err != nil {
		logger.Error("Failed to encode response: " + err.Error())
		return
	}
	_, err = conn.Write(data)
	if err != nil {
		logger.Error("Failed to send response: " + err.Error())
	}
}

// sendError sends an error message to the client
func (s *Server) sendError(conn net.Conn, errorMessage string) {
	response := map[string]interface{}{"status": "ERROR", "message": errorMessage}
	s.sendResponse(conn, response)
}
