package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmap/internal/config"
	diag "github.com/coreman2200/ledmap/internal/diagnostics"
	"github.com/coreman2200/ledmap/internal/layout"
	"github.com/coreman2200/ledmap/internal/led"
	"github.com/coreman2200/ledmap/internal/mapper"
	"github.com/coreman2200/ledmap/internal/pixelblaze"
)

const writeWait = 200 * time.Millisecond

// client serialises writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State serves the current fixture map to preview clients and accepts layout
// changes over the control socket.
type State struct {
	mu     sync.RWMutex
	Layout layout.Layout
	Reg    *mapper.Registry

	// Config is persisted to ConfigPath after every accepted control change.
	Config     *config.Config
	ConfigPath string

	m           mapper.Map
	version     uint64
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	upgrader    websocket.Upgrader
}

func NewState(l layout.Layout, reg *mapper.Registry) (*State, error) {
	if reg == nil {
		reg = mapper.NewRegistry()
	}
	m, err := l.Build(reg)
	if err != nil {
		return nil, err
	}
	return &State{
		Layout:      l,
		Reg:         reg,
		m:           m,
		version:     1,
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}, nil
}

// Handler routes every endpoint of the map server.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/map", s.HandleMap)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/ws", s.HandleTopologyWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	return withCORS(mux)
}

// Map returns the current map. Callers must not modify it.
func (s *State) Map() mapper.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m
}

// HandleMap writes the map as a Pixelblaze JSON map. Query parameters: scale
// (float), center (bool), 2d (bool), normalized (bool). normalized replaces
// lattice coordinates with per-axis positions in [0,1] before scaling.
func (s *State) HandleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scale := 1.0
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "bad scale", http.StatusBadRequest)
			return
		}
		scale = f
	}
	center, _ := strconv.ParseBool(q.Get("center"))
	flat, _ := strconv.ParseBool(q.Get("2d"))
	normalized, _ := strconv.ParseBool(q.Get("normalized"))

	var ps []pixelblaze.Point
	if normalized {
		lut := led.BuildLUT(s.Map())
		ps = make([]pixelblaze.Point, len(lut))
		for i, v := range lut {
			ps[i] = pixelblaze.Point{v.X, v.Y, v.Z}
		}
		ps = pixelblaze.Scale(ps, scale)
	} else {
		ps = pixelblaze.FromMap(s.Map(), scale)
	}
	if center {
		ps = pixelblaze.Center(ps)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := pixelblaze.Encode(w, ps, !flat); err != nil {
		log.Debug().Err(err).Msg("write map")
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"version":     s.version,
		"uptime_s":    time.Since(s.startTime).Seconds(),
		"mapper":      s.Layout.Mapper,
		"count":       len(s.m),
		"pixel_count": s.Layout.PixelCount,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) HandleTopologyWS(w http.ResponseWriter, r *http.Request) {
	c := s.upgrade(w, r, false)
	if c == nil {
		return
	}
	s.sendTopology(c)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c := s.upgrade(w, r, true)
	if c == nil {
		return
	}
	s.mu.RLock()
	ds := mapper.Validate(s.m, s.Layout.PixelCount)
	s.mu.RUnlock()
	for _, d := range ds {
		b, _ := json.Marshal(d)
		_ = c.send(b)
	}
}

// upgrade registers the connection and drains reads until the peer goes away.
func (s *State) upgrade(w http.ResponseWriter, r *http.Request, isDiag bool) *client {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil
	}
	c := &client{conn: conn}
	s.mu.Lock()
	set := s.clients
	if isDiag {
		set = s.diagClients
	}
	set[c] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return c
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.pushDiag(diag.Diagnostic{
				Severity: diag.Warn, Code: "CONTROL.BAD_JSON", Summary: "Control message is not valid JSON",
				Detail: err.Error(),
			})
			continue
		}
		s.applyControl(msg)
		s.sendTopology(c)
	}
}

// Control is a layout change request; nil fields are left as they are.
type Control struct {
	Dim        *config.Dim `json:"dim,omitempty"`
	Mapper     *string     `json:"mapper,omitempty"`
	PixelCount *int        `json:"pixelCount,omitempty"`
}

func (s *State) applyControl(msg Control) {
	s.mu.Lock()
	next := s.Layout
	if msg.Dim != nil {
		next.Dim = mapper.Dim{X: msg.Dim.X, Y: msg.Dim.Y, Z: msg.Dim.Z}
	}
	if msg.Mapper != nil {
		next.Mapper = *msg.Mapper
	}
	if msg.PixelCount != nil {
		next.PixelCount = *msg.PixelCount
	}
	m, err := next.Build(s.Reg)
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Msg("control rejected")
		s.pushDiag(diag.Diagnostic{
			Severity: diag.Err, Code: "CONTROL.REJECTED", Summary: "Layout change rejected",
			Detail: err.Error(),
		})
		return
	}
	s.Layout = next
	s.m = m
	s.version++
	s.saveConfig()
	ds := mapper.Validate(m, next.PixelCount)
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	log.Info().Str("mapper", next.Mapper).Int("count", len(m)).Msg("layout changed")
	for _, d := range ds {
		s.pushDiag(d)
	}
	for _, c := range clients {
		s.sendTopology(c)
	}
}

// saveConfig must be called with s.mu held.
func (s *State) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	cfg := config.Default()
	if s.Config != nil {
		cp := *s.Config
		cfg = &cp
	}
	cfg.Dim = config.Dim{X: s.Layout.Dim.X, Y: s.Layout.Dim.Y, Z: s.Layout.Dim.Z}
	cfg.Mapper = s.Layout.Mapper
	cfg.PixelCount = s.Layout.PixelCount
	s.Config = cfg
	if err := config.Save(s.ConfigPath, cfg); err != nil {
		log.Warn().Err(err).Str("path", s.ConfigPath).Msg("config save failed")
	}
}

// Topology is sent to /ws clients on connect and after every layout change.
type Topology struct {
	Version    uint64     `json:"version"`
	Dim        config.Dim `json:"dim"`
	Mapper     string     `json:"mapper"`
	PixelCount int        `json:"pixelCount"`
	Map        mapper.Map `json:"map"`
}

func (s *State) sendTopology(c *client) {
	s.mu.RLock()
	top := Topology{
		Version:    s.version,
		Dim:        config.Dim{X: s.Layout.Dim.X, Y: s.Layout.Dim.Y, Z: s.Layout.Dim.Z},
		Mapper:     s.Layout.Mapper,
		PixelCount: s.Layout.PixelCount,
		Map:        s.m,
	}
	s.mu.RUnlock()
	b, _ := json.Marshal(top)
	if err := c.send(b); err != nil {
		log.Debug().Err(err).Msg("write topology")
	}
}

func (s *State) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	clients := make([]*client, 0, len(s.diagClients))
	for c := range s.diagClients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()
	for _, c := range clients {
		_ = c.send(b)
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
