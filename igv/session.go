// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

const (
	// DefaultHost is the loopback address the viewer listens on.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the viewer's default batch command port.
	DefaultPort = 60151
)

// Session is the client-side handle for one logical controller of one
// viewer instance. It combines the transport with the command encoder
// and holds the session-scoped state: the snapshot-directory cache
// (the last directory this client told the viewer to save into; the
// viewer cannot be queried for the current value, so the cache can
// silently drift if someone changes it through the viewer's own UI),
// the append-only history of sent command lines, and the process
// record when this session launched the viewer itself.
//
// A Session is not safe for concurrent use. Every command method
// blocks until the viewer answers.
type Session struct {
	host        string
	port        int
	dialTimeout time.Duration
	logger      *slog.Logger

	conn        *conn
	snapshotDir string
	history     []string

	// process is set only when this session spawned the viewer;
	// termination branches on its presence.
	process *Process
}

// Option configures a Session at construction.
type Option func(*Session)

// WithHost sets the viewer host. Default 127.0.0.1.
func WithHost(host string) Option {
	return func(s *Session) { s.host = host }
}

// WithPort sets the viewer's batch command port. Default 60151; must
// match the port the viewer was told to listen on.
func WithPort(port int) Option {
	return func(s *Session) { s.port = port }
}

// WithLogger sets the logger for session activity. Default
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithDialTimeout bounds the TCP dial when connecting. Zero (the
// default) leaves the dial bounded only by ctx.
func WithDialTimeout(timeout time.Duration) Option {
	return func(s *Session) { s.dialTimeout = timeout }
}

// New constructs an unconnected Session. Call Connect before sending
// commands, or use Open to do both at once.
func New(options ...Option) *Session {
	session := &Session{
		host:   DefaultHost,
		port:   DefaultPort,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(session)
	}
	return session
}

// Open constructs a Session and connects it to an already-running
// viewer.
func Open(ctx context.Context, options ...Option) (*Session, error) {
	session := New(options...)
	if err := session.Connect(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// WithSession runs fn with a connected Session and guarantees the
// transport is closed on every exit path out of fn, normal or not.
// This is the scoped alternative to explicit Open/Close.
func WithSession(ctx context.Context, fn func(*Session) error, options ...Option) error {
	session, err := Open(ctx, options...)
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session)
}

// Connect opens the TCP connection to the viewer, closing any prior
// connection first. A session may reconnect after Close or Exit.
func (s *Session) Connect(ctx context.Context) error {
	if s.conn != nil {
		s.conn.close()
	}
	address := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	connection, err := dialConn(ctx, address, s.dialTimeout)
	if err != nil {
		return err
	}
	s.conn = connection
	return nil
}

// Close releases the connection. Idempotent; safe on a session that
// never connected. The viewer keeps running: use Exit to ask it to
// quit, or Kill to terminate a viewer this session launched.
func (s *Session) Close() {
	s.conn.close()
}

// Closed reports whether the session has no live connection.
func (s *Session) Closed() bool {
	return s.conn.isClosed()
}

// Host returns the configured viewer host.
func (s *Session) Host() string { return s.host }

// Port returns the configured batch command port.
func (s *Session) Port() int { return s.port }

// SnapshotDir returns the cached snapshot directory: the last value
// this session set on the viewer, or empty if it never set one.
func (s *Session) SnapshotDir() string { return s.snapshotDir }

// History returns the command lines this session has sent, in order.
// Lines are recorded when encoding succeeds, before the write is
// attempted, so the history captures intent rather than confirmed
// delivery. Commands rejected during argument validation never appear.
func (s *Session) History() []string {
	return slices.Clone(s.history)
}

// Send encodes and sends an arbitrary batch command, returning the
// viewer's raw single-line response. This is the escape hatch for
// commands without a dedicated method; arguments follow the encoder's
// rules (nil dropped, booleans as true/false, numerics in decimal).
func (s *Session) Send(name string, args ...any) (string, error) {
	if s.Closed() {
		return "", ErrNotConnected
	}
	line, err := encodeCommand(name, args...)
	if err != nil {
		return "", err
	}
	return s.sendLine(line)
}

// sendLine records an already-encoded command line in the history and
// performs the round trip. The history append happens before the
// write so that a command whose write fails is still recorded.
func (s *Session) sendLine(line string) (string, error) {
	if s.Closed() {
		return "", ErrNotConnected
	}
	s.history = append(s.history, line)
	return s.conn.roundTrip(line)
}

// Echo sends the liveness check. The viewer answers with the message
// itself, or with the literal text "echo" when no message is given.
func (s *Session) Echo(message string) (string, error) {
	return s.Send("echo", optionalArg(message))
}

// Genome selects the reference genome. A value that resolves to an
// existing file is sent as an absolute path; anything else goes
// verbatim as a named genome id such as "hg19".
func (s *Session) Genome(nameOrPath string) (string, error) {
	argument := nameOrPath
	if absolute, err := filepath.Abs(nameOrPath); err == nil {
		if _, statErr := os.Stat(absolute); statErr == nil {
			argument = absolute
		}
	}
	return s.Send("genome", argument)
}

// Load loads a track file or URL. Local paths are expanded to
// absolute form; values with a URI scheme pass through unchanged.
func (s *Session) Load(pathOrURL string) (string, error) {
	return s.Send("load", normalizePath(pathOrURL))
}

// LoadIndexed loads a track with an explicit index, encoded as the
// literal token index=<value> after the main argument. The index
// value is not path-expanded.
func (s *Session) LoadIndexed(pathOrURL, index string) (string, error) {
	return s.Send("load", normalizePath(pathOrURL), "index="+index)
}

// Goto jumps the view to one or more loci, e.g. "chr1:1000-2000".
func (s *Session) Goto(loci ...string) (string, error) {
	if len(loci) == 0 {
		return "", &ArgumentError{Command: "goto", Reason: "requires at least one locus"}
	}
	args := make([]any, len(loci))
	for i, locus := range loci {
		args[i] = locus
	}
	return s.Send("goto", args...)
}

// Region defines a region of interest from start to end on the given
// chromosome.
func (s *Session) Region(chromosome string, start, end int) (string, error) {
	return s.Send("region", chromosome, start, end)
}

// Sort sorts an alignment track. The option must be one of base,
// position, strand, quality, sample, or readGroup; anything else is
// rejected with an OptionError before touching the network.
func (s *Session) Sort(option string) (string, error) {
	if !slices.Contains(sortOptions, option) {
		return "", &OptionError{Command: "sort", Value: option, Valid: sortOptions}
	}
	return s.Send("sort", option)
}

// Expand expands the named track, or all tracks when track is empty.
func (s *Session) Expand(track string) (string, error) {
	return s.Send("expand", optionalArg(track))
}

// Collapse collapses the named track, or all tracks when track is
// empty.
func (s *Session) Collapse(track string) (string, error) {
	return s.Send("collapse", optionalArg(track))
}

// Squish squishes the named track, or all tracks when track is empty.
func (s *Session) Squish(track string) (string, error) {
	return s.Send("squish", optionalArg(track))
}

// ViewAsPairs shows paired reads together for the named track, or all
// tracks when track is empty.
func (s *Session) ViewAsPairs(track string) (string, error) {
	return s.Send("viewaspairs", optionalArg(track))
}

// Clear clears all loaded tracks.
func (s *Session) Clear() (string, error) {
	return s.Send("clear")
}

// NewSession resets the viewer to a fresh session, unloading all
// tracks except the default genome annotations. This is the wire
// command "new".
func (s *Session) NewSession() (string, error) {
	return s.Send("new")
}

// Preferences sends the preferences command.
func (s *Session) Preferences() (string, error) {
	return s.Send("preferences")
}

// Preference sets a single named preference on the viewer.
func (s *Session) Preference(key, value string) (string, error) {
	return s.Send("preference", key, value)
}

// SaveSession writes the viewer's session definition to the given
// local path.
func (s *Session) SaveSession(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("igv: resolving session path: %w", err)
	}
	return s.Send("saveSession", absolute)
}

// SetSnapshotDir points the viewer's snapshot output at dir, creating
// the directory locally first. Setting the directory to its cached
// value is a no-op with no round trip, so repeated saves into the
// same place cost nothing; use ForceSnapshotDir when the viewer's
// state may have drifted and the command must be sent regardless.
// The cache updates only after the viewer acknowledges the command.
func (s *Session) SetSnapshotDir(dir string) (string, error) {
	return s.setSnapshotDir(dir, false)
}

// ForceSnapshotDir sends the snapshot-directory command even when dir
// matches the cached value.
func (s *Session) ForceSnapshotDir(dir string) (string, error) {
	return s.setSnapshotDir(dir, true)
}

func (s *Session) setSnapshotDir(dir string, force bool) (string, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("igv: resolving snapshot directory: %w", err)
	}
	if !force && absolute == s.snapshotDir {
		return "", nil
	}
	if err := os.MkdirAll(absolute, 0o755); err != nil {
		return "", fmt.Errorf("igv: creating snapshot directory: %w", err)
	}
	response, err := s.Send("snapshotDirectory", absolute)
	if err != nil {
		return "", err
	}
	s.snapshotDir = absolute
	return response, nil
}

// Snapshot saves a rendered image of the current view. With an empty
// path the viewer picks the filename and saves into its current
// snapshot directory. With a path whose directory matches the cached
// snapshot directory, one command is sent with just the base
// filename. Otherwise the viewer is retargeted to the path's
// directory, the snapshot is taken, and the previous directory is
// restored (three round trips), so a one-off save elsewhere does not
// permanently change the viewer's global state.
func (s *Session) Snapshot(path string) (string, error) {
	if path == "" {
		return s.Send("snapshot")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("igv: resolving snapshot path: %w", err)
	}
	directory := filepath.Dir(absolute)
	filename := filepath.Base(absolute)

	if directory == s.snapshotDir {
		return s.Send("snapshot", filename)
	}

	previous := s.snapshotDir
	if _, err := s.SetSnapshotDir(directory); err != nil {
		return "", err
	}
	response, err := s.Send("snapshot", filename)
	if err != nil {
		return response, err
	}
	// No restore when the session had never set a directory: there is
	// no previous server-side value to put back.
	if previous != "" {
		if _, err := s.SetSnapshotDir(previous); err != nil {
			return response, err
		}
	}
	return response, nil
}

// Exit tells the viewer to shut down its UI and closes the transport.
// The viewer drops the connection without answering, which is not an
// error.
func (s *Session) Exit() error {
	_, err := s.Send("exit")
	s.Close()
	return err
}

// Kill terminates a viewer this session launched by signaling its
// process group, then closes the transport. Sessions that attached to
// an already-running viewer have no process record and are refused:
// killing a viewer someone else owns is not this client's call.
func (s *Session) Kill() error {
	if s.process == nil {
		return fmt.Errorf("igv: this session did not launch the viewer; use Exit to ask it to quit")
	}
	err := s.process.Terminate(s.logger)
	s.Close()
	return err
}

// Process returns the launch record when this session spawned the
// viewer, or nil for attach-only sessions.
func (s *Session) Process() *Process {
	return s.process
}

// Set sends the preference setter set<Name> with the given parameters.
// This is sugar over Send for the long tail of set* commands without
// a dedicated method; the sub-command name keeps its exact case.
func (s *Session) Set(name string, params ...any) (string, error) {
	if name == "" {
		return "", &ArgumentError{Command: "set", Reason: "preference name is required"}
	}
	return s.Send("set"+name, params...)
}

// SetAltColor sets the alternate color for the named track, or for
// all tracks when track is empty. Colors are RGB triples or hex
// strings as the viewer accepts them.
func (s *Session) SetAltColor(color, track string) (string, error) {
	return s.Send("setAltColor", color, optionalArg(track))
}

// SetColor sets the primary color for the named track, or for all
// tracks when track is empty.
func (s *Session) SetColor(color, track string) (string, error) {
	return s.Send("setColor", color, optionalArg(track))
}

// SetDataRange sets the displayed data range, e.g. "0,100", for the
// named track or all numeric tracks when track is empty.
func (s *Session) SetDataRange(dataRange, track string) (string, error) {
	return s.Send("setDataRange", dataRange, optionalArg(track))
}

// SetLogScale toggles log-scale display for numeric tracks.
func (s *Session) SetLogScale(enabled bool) (string, error) {
	return s.Send("setLogScale", enabled)
}

// SetSequenceStrand sets the sequence track strand, "+" or "-".
func (s *Session) SetSequenceStrand(strand string) (string, error) {
	return s.Send("setSequenceStrand", strand)
}

// SetSequenceShowTranslation toggles the three-frame translation rows
// on the sequence track.
func (s *Session) SetSequenceShowTranslation(enabled bool) (string, error) {
	return s.Send("setSequenceShowTranslation", enabled)
}

// SetSleepInterval sets the delay in milliseconds the viewer inserts
// between batch commands.
func (s *Session) SetSleepInterval(milliseconds int) (string, error) {
	return s.Send("setSleepInterval", milliseconds)
}

// SetTrackHeight sets the height in pixels for the named track, or
// for all tracks when track is empty.
func (s *Session) SetTrackHeight(height int, track string) (string, error) {
	return s.Send("setTrackHeight", height, optionalArg(track))
}

// MaxPanelHeight sets the maximum height in pixels a data panel may
// grow to in saved snapshots.
func (s *Session) MaxPanelHeight(height int) (string, error) {
	return s.Send("maxPanelHeight", height)
}

// ColorBy colors alignments by the given option, with an optional tag
// for the TAG option.
func (s *Session) ColorBy(option, tag string) (string, error) {
	return s.Send("colorBy", option, optionalArg(tag))
}

// Group groups alignments by the given option, with an optional tag.
func (s *Session) Group(option, tag string) (string, error) {
	return s.Send("group", option, optionalArg(tag))
}

// Overlay combines the given tracks into one overlaid track.
func (s *Session) Overlay(overlaidTrack string, tracks ...string) (string, error) {
	args := make([]any, 0, len(tracks)+1)
	args = append(args, overlaidTrack)
	for _, track := range tracks {
		args = append(args, track)
	}
	return s.Send("overlay", args...)
}

// Separate splits a previously overlaid track back apart.
func (s *Session) Separate(overlaidTrack string) (string, error) {
	return s.Send("separate", overlaidTrack)
}

// ScrollToTop scrolls the view back to the top panel.
func (s *Session) ScrollToTop() (string, error) {
	return s.Send("scrollToTop")
}

// SetAccessToken supplies an OAuth token the viewer presents when
// fetching data, limited to the given host when host is non-empty.
// The token is passed through as text; the session does not store it.
func (s *Session) SetAccessToken(token, host string) (string, error) {
	return s.Send("setAccessToken", token, optionalArg(host))
}

// ClearAccessTokens drops all access tokens held by the viewer.
func (s *Session) ClearAccessTokens() (string, error) {
	return s.Send("clearAccessTokens")
}
