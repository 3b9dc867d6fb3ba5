package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/collection"
	"github.com/satchel-tui/satchel/internal/listview"
	"github.com/satchel-tui/satchel/internal/practice"
	"github.com/satchel-tui/satchel/internal/session"
)

// Screen represents the current active screen.
type Screen int

const (
	ScreenBoot Screen = iota
	ScreenLogin
	ScreenDecks
	ScreenDeck
	ScreenPractice
	ScreenHistory
	ScreenCards
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     *api.Client
	Session    *session.Store
	Collection *collection.Store
	Theme      Theme
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	client     *api.Client
	session    *session.Store
	collection *collection.Store

	// UI state
	styles  Styles
	screen  Screen
	width   int
	height  int
	ready   bool
	waiting spinner.Model

	// Login state
	login loginState

	// Deck browser state
	decks       *listview.Model[api.Deck]
	decksGen    int
	cursor      int
	nameFilter  textinput.Model
	tagFilter   textinput.Model
	filterFocus int // 0 = list, 1 = name filter, 2 = tag filter
	deckForm    deckFormState
	confirming  bool

	// Collection mutations carry their own error slot so an add/remove
	// failure cannot clobber a deck-update error, or the other way around.
	collectionErr error

	// Deck detail state
	detail     *api.Deck
	detailGen  int
	detailErr  error
	cardCursor int
	picker     pickerState
	attachErr  error

	// Card library state (admin)
	cards           *listview.Model[api.Card]
	cardsGen        int
	cardsCursor     int
	cardNameFilter  textinput.Model
	cardTagFilter   textinput.Model
	cardFilterFocus int // 0 = list, 1 = text filter, 2 = tag filter
	cardForm        cardFormState
	cardConfirming  bool

	// Practice state
	run       *practice.Session
	answer    textinput.Model
	reviews   []api.Review
	rated     bool
	reviewErr error

	// History state
	history       []api.TestResult
	historyGen    int
	historyErr    error
	historyFilter textinput.Model
	historyFocus  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme()
	}

	name := textinput.New()
	name.Placeholder = "filter by name"
	name.Prompt = "/ "
	name.CharLimit = 80

	tags := textinput.New()
	tags.Placeholder = "filter by tags (comma separated)"
	tags.Prompt = "# "
	tags.CharLimit = 120

	answer := textinput.New()
	answer.Placeholder = "your answer"
	answer.Prompt = "> "
	answer.CharLimit = 200

	historyFilter := textinput.New()
	historyFilter.Placeholder = "filter by deck"
	historyFilter.Prompt = "/ "
	historyFilter.CharLimit = 80

	cardName := textinput.New()
	cardName.Placeholder = "filter by front/back"
	cardName.Prompt = "/ "
	cardName.CharLimit = 80

	cardTags := textinput.New()
	cardTags.Placeholder = "filter by tags (comma separated)"
	cardTags.Prompt = "# "
	cardTags.CharLimit = 120

	styles := theme.Styles()
	waiting := spinner.New()
	waiting.Spinner = spinner.Dot
	waiting.Style = styles.Accent

	return Model{
		ctx:            ctx,
		client:         opts.Client,
		session:        opts.Session,
		collection:     opts.Collection,
		styles:         styles,
		screen:         ScreenBoot,
		waiting:        waiting,
		login:          newLoginState(),
		decks:          listview.New(func(d api.Deck) int { return d.ID }),
		nameFilter:     name,
		tagFilter:      tags,
		answer:         answer,
		historyFilter:  historyFilter,
		cards:          listview.New(func(c api.Card) int { return c.ID }),
		cardNameFilter: cardName,
		cardTagFilter:  cardTags,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		m.waiting.Tick,
		initSessionCmd(m.ctx, m.session),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.waiting, cmd = m.waiting.Update(msg)
		return m, cmd

	case sessionReadyMsg:
		return m.handleSessionReady(msg)

	case authMsg:
		return m.handleAuth(msg)

	case decksMsg:
		return m.handleDecks(msg)

	case deckMsg:
		return m.handleDeck(msg)

	case deckSavedMsg:
		return m.handleDeckSaved(msg)

	case deckDeletedMsg:
		return m.handleDeckDeleted(msg)

	case collectionMsg:
		return m.handleCollection(msg)

	case collectionChangedMsg:
		return m.handleCollectionChanged(msg)

	case historyMsg:
		return m.handleHistory(msg)

	case reviewsMsg:
		return m.handleReviews(msg)

	case reviewSavedMsg:
		return m.handleReviewSaved(msg)

	case reportMsg:
		return m.handleReport(msg)

	case cardsMsg:
		return m.handleCards(msg)

	case cardSavedMsg:
		return m.handleCardSaved(msg)

	case cardDeletedMsg:
		return m.handleCardDeleted(msg)

	case pickerCardsMsg:
		return m.handlePickerCards(msg)

	case deckCardsMsg:
		return m.handleDeckCards(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.screen {
	case ScreenBoot:
		b.WriteString(m.waiting.View() + m.styles.Muted.Render(" Restoring session..."))
	case ScreenLogin:
		b.WriteString(m.renderLogin())
	case ScreenDecks:
		b.WriteString(m.renderDecks())
	case ScreenDeck:
		b.WriteString(m.renderDeck())
	case ScreenPractice:
		b.WriteString(m.renderPractice())
	case ScreenHistory:
		b.WriteString(m.renderHistory())
	case ScreenCards:
		b.WriteString(m.renderCards())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey routes keyboard input to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenDecks:
		return m.handleDecksKey(msg)
	case ScreenDeck:
		return m.handleDeckKey(msg)
	case ScreenPractice:
		return m.handlePracticeKey(msg)
	case ScreenHistory:
		return m.handleHistoryKey(msg)
	case ScreenCards:
		return m.handleCardsKey(msg)
	}
	return m, nil
}

// handleSessionReady resolves the boot screen once the persisted session has
// been checked against the backend.
func (m Model) handleSessionReady(msg sessionReadyMsg) (tea.Model, tea.Cmd) {
	if m.session.State() == session.StateAuthenticated {
		return m.enterDecks()
	}
	m.screen = ScreenLogin
	if msg.err != nil {
		m.login.err = msg.err
	}
	return m, m.login.focusFirst()
}

// handleAuth resolves a login or register attempt.
func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.login.err = msg.err
		return m, nil
	}
	m.login = newLoginState()
	return m.enterDecks()
}

// enterDecks switches to the deck browser and kicks off the two fetches the
// page depends on.
func (m Model) enterDecks() (tea.Model, tea.Cmd) {
	m.screen = ScreenDecks
	m.decksGen++
	m.decks.BeginLoad()
	return m, tea.Batch(
		fetchDecksCmd(m.ctx, m.client, m.decksGen),
		loadCollectionCmd(m.ctx, m.collection),
	)
}

// unauthorized centralizes 401 handling: the session is invalidated and the
// user lands back on the login form.
func (m Model) unauthorized() (tea.Model, tea.Cmd) {
	m.session.Invalidate()
	m.screen = ScreenLogin
	m.login = newLoginState()
	m.login.notice = "Session expired, please sign in again."
	return m, m.login.focusFirst()
}

// renderHeader draws the one-line title bar with the signed-in identity.
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("recall")
	who := ""
	if user, ok := m.session.User(); ok {
		who = m.styles.Muted.Render(user.Email)
		if user.Role == api.RoleAdmin {
			who += m.styles.Accent.Render(" (admin)")
		}
	}
	return m.styles.Header.Render(title + "  " + who)
}

// renderFooter draws the context-sensitive key hints.
func (m Model) renderFooter() string {
	var hints string
	switch m.screen {
	case ScreenLogin:
		hints = "tab: next field • enter: submit • ctrl+r: toggle register • ctrl+c: quit"
	case ScreenDecks:
		hints = "j/k: move • enter: open • a: add/remove • n: new • d: delete • /: name • #: tags • H: history • L: logout"
		if m.session.IsAdmin() {
			hints += " • C: cards"
		}
	case ScreenDeck:
		if m.picker.open {
			hints = "j/k: move • enter: attach • esc: close"
		} else {
			hints = "p: practice • 1-5: rate • A: attach card • x: detach • esc: back"
		}
	case ScreenPractice:
		hints = m.practiceHints()
	case ScreenHistory:
		hints = "/: filter by deck • esc: back"
	case ScreenCards:
		hints = "j/k: move • n: new • e: edit • d: delete • /: text • #: tags • r: reload • esc: back"
	}
	return m.styles.Footer.Render(hints)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
