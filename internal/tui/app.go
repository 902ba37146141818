package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naveenspark/stays/internal/bookings"
	"github.com/naveenspark/stays/internal/browser"
	"github.com/naveenspark/stays/internal/location"
	"github.com/naveenspark/stays/internal/places"
	"github.com/naveenspark/stays/internal/session"
	"github.com/naveenspark/stays/pkg/domain"
)

type view int

const (
	viewAuth view = iota
	viewDiscover
	viewOffers
	viewBookings
)

type overlay int

const (
	overlayNone overlay = iota
	overlayDetail
	overlayOfferForm
	overlayBookingForm
)

// Deps are the services the App drives. A nil service turns off the
// screens and actions that need it.
type Deps struct {
	Context  context.Context
	Session  *session.Store
	Sessions *session.Manager
	Gate     *session.Gate
	Places   *places.Service
	Bookings *bookings.Service
	Location *location.Resolver
	Log      *zap.Logger
	Version  string
}

// sessionMsg delivers a session change; nil means signed out.
type sessionMsg struct {
	sess *domain.Session
}

// gateMsg carries the gate's verdict for opening target.
type gateMsg struct {
	target  view
	allowed bool
}

type statusMsg struct {
	text string
	err  error
}

type logoutDoneMsg struct {
	err error
}

// feeds holds the store subscriptions; shared by every copy of the App.
type feeds struct {
	session  <-chan *domain.Session
	places   <-chan []domain.Place
	bookings <-chan []domain.Booking
	cancels  []func()
}

// App is the root Bubbletea model.
type App struct {
	deps  Deps
	ctx   context.Context
	log   *zap.Logger
	feeds *feeds

	view        view
	overlay     overlay
	auth        authModel
	discover    discoverModel
	offers      offersModel
	bookingList bookingListModel
	detail      detailModel
	offerForm   offerFormModel
	bookingForm bookingFormModel
	spinner     spinner.Model
	helpOpen    bool

	userID    string
	email     string
	status    string
	statusErr bool
	width     int
	height    int
	frame     int // logo shimmer animation frame
}

// NewApp creates a new TUI application and subscribes to the stores.
// Call Close when the program exits.
func NewApp(d Deps) App {
	a := App{
		deps:        d,
		ctx:         d.Context,
		log:         d.Log,
		feeds:       &feeds{},
		view:        viewAuth,
		auth:        newAuthModel(),
		discover:    newDiscoverModel(),
		offers:      newOffersModel(),
		bookingList: newBookingListModel(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}
	if a.ctx == nil {
		a.ctx = context.Background()
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.log = a.log.Named("tui")

	if d.Session != nil {
		ch, cancel := d.Session.Subscribe()
		a.feeds.session = ch
		a.feeds.cancels = append(a.feeds.cancels, cancel)
		a = a.withIdentity(d.Session.Current())
	}
	if d.Places != nil {
		ch, cancel := d.Places.Subscribe()
		a.feeds.places = ch
		a.feeds.cancels = append(a.feeds.cancels, cancel)
	}
	if d.Bookings != nil {
		ch, cancel := d.Bookings.Subscribe()
		a.feeds.bookings = ch
		a.feeds.cancels = append(a.feeds.cancels, cancel)
	}
	return a
}

// Close ends the store subscriptions.
func (a App) Close() {
	for _, cancel := range a.feeds.cancels {
		cancel()
	}
	a.feeds.cancels = nil
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		shimmerTickCmd(),
		a.spinner.Tick,
		a.listenSession(),
		a.listenPlaces(),
		a.listenBookings(),
		a.guard(viewDiscover),
	)
}

// listen waits for the next value on ch and wraps it as a message.
func listen[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

func (a App) listenSession() tea.Cmd {
	return listen(a.feeds.session, func(s *domain.Session) tea.Msg { return sessionMsg{sess: s} })
}

func (a App) listenPlaces() tea.Cmd {
	return listen(a.feeds.places, func(l []domain.Place) tea.Msg { return placesMsg{list: l} })
}

func (a App) listenBookings() tea.Cmd {
	return listen(a.feeds.bookings, func(l []domain.Booking) tea.Msg { return bookingsMsg{list: l} })
}

func (a App) withIdentity(sess *domain.Session) App {
	a.userID, a.email = "", ""
	if sess != nil {
		a.userID, a.email = sess.UserID, sess.Email
	}
	a.discover.userID = a.userID
	a.offers.userID = a.userID
	a.detail.userID = a.userID
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.discover, _ = a.discover.Update(bodyMsg)
		a.offers, _ = a.offers.Update(bodyMsg)
		a.bookingList, _ = a.bookingList.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		a = a.withIdentity(msg.sess)
		if msg.sess == nil {
			if a.view != viewAuth {
				a = a.toAuth("session ended, please log in again")
			}
			return a, a.listenSession()
		}
		if a.view == viewAuth {
			var cmd tea.Cmd
			a, cmd = a.enter(viewDiscover)
			return a, tea.Batch(a.listenSession(), cmd)
		}
		return a, a.listenSession()

	case placesMsg:
		a.discover, _ = a.discover.Update(msg)
		a.offers, _ = a.offers.Update(msg)
		return a, a.listenPlaces()

	case bookingsMsg:
		a.bookingList, _ = a.bookingList.Update(msg)
		return a, a.listenBookings()

	case gateMsg:
		if !msg.allowed {
			return a.toAuth(""), nil
		}
		// A session start may already have entered the target.
		if a.view == msg.target && a.overlay == overlayNone {
			return a, nil
		}
		return a.enter(msg.target)

	case submitAuthMsg:
		return a, a.authenticate(msg)

	case authDoneMsg:
		a.auth, _ = a.auth.Update(msg)
		if msg.err != nil {
			a.log.Info("authentication failed", zap.Error(msg.err))
			return a, nil
		}
		if a.view == viewAuth {
			if a.deps.Session != nil {
				a = a.withIdentity(a.deps.Session.Current())
			}
			return a.enter(viewDiscover)
		}
		return a, nil

	case logoutDoneMsg:
		if msg.err != nil {
			a.log.Warn("logout failed", zap.Error(msg.err))
		}
		a = a.withIdentity(nil)
		return a.toAuth(""), nil

	case refreshMsg:
		switch a.view {
		case viewDiscover, viewOffers:
			return a, a.fetchPlaces()
		case viewBookings:
			return a, a.fetchBookings()
		}
		return a, nil

	case placesFetchedMsg:
		if msg.err != nil {
			a.log.Warn("fetch places failed", zap.Error(msg.err))
		}
		a.discover, _ = a.discover.Update(msg)
		a.offers, _ = a.offers.Update(msg)
		return a, nil

	case bookingsFetchedMsg:
		if msg.err != nil {
			a.log.Warn("fetch bookings failed", zap.Error(msg.err))
		}
		a.bookingList, _ = a.bookingList.Update(msg)
		return a, nil

	case openDetailMsg:
		a.overlay = overlayDetail
		a.detail = newDetailModel(a.userID)
		a.detail.width = a.width
		return a, a.loadPlace(msg.id)

	case placeLoadedMsg:
		a.detail, _ = a.detail.Update(msg)
		return a, nil

	case closeOverlayMsg:
		a.overlay = overlayNone
		return a, nil

	case bookMsg:
		a.overlay = overlayBookingForm
		a.bookingForm = newBookingFormModel(msg.place, msg.random)
		return a, nil

	case newOfferMsg:
		a.overlay = overlayOfferForm
		a.offerForm = newOfferFormModel()
		return a, nil

	case editOfferMsg:
		a.overlay = overlayOfferForm
		a.offerForm = newEditOfferModel(msg.place)
		return a, nil

	case locateMsg:
		return a, a.locate()

	case locatedMsg:
		a.offerForm, _ = a.offerForm.Update(msg)
		return a, nil

	case submitOfferMsg:
		return a, a.addOffer(msg)

	case submitEditMsg:
		return a, a.editOffer(msg)

	case offerSavedMsg:
		var cmd tea.Cmd
		a.offerForm, cmd = a.offerForm.Update(msg)
		if msg.err == nil && msg.place != nil {
			a = a.setStatus("saved "+msg.place.Title, nil)
		}
		return a, cmd

	case submitBookingMsg:
		return a, a.addBooking(msg)

	case bookingSavedMsg:
		var cmd tea.Cmd
		a.bookingForm, cmd = a.bookingForm.Update(msg)
		if msg.err == nil && msg.booking != nil {
			a = a.setStatus(fmt.Sprintf("booked %s for %d nights", msg.booking.PlaceTitle, msg.booking.Nights()), nil)
		}
		return a, cmd

	case cancelBookingMsg:
		return a, a.cancelBooking(msg.id)

	case bookingCancelledMsg:
		a.bookingList, _ = a.bookingList.Update(msg)
		if msg.err == nil {
			a = a.setStatus("booking cancelled", nil)
		}
		return a, nil

	case copyMsg:
		return a, copyCmd(msg)

	case browseMsg:
		return a, browseCmd(msg.url)

	case statusMsg:
		return a.setStatus(msg.text, msg.err), nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.route(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	a.status = ""

	if a.helpOpen {
		switch {
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Back):
			a.helpOpen = false
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	// Forms and the auth screen take every key.
	if a.isEditing() {
		return a.route(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.helpOpen = true
		return a, nil
	case key.Matches(msg, keys.Logout):
		return a, a.logout()
	case key.Matches(msg, keys.TabDiscover):
		return a.switchTo(viewDiscover)
	case key.Matches(msg, keys.TabOffers):
		return a.switchTo(viewOffers)
	case key.Matches(msg, keys.TabBookings):
		return a.switchTo(viewBookings)
	}
	return a.route(msg)
}

func (a App) switchTo(target view) (tea.Model, tea.Cmd) {
	if a.view == target && a.overlay == overlayNone {
		return a, nil
	}
	return a, a.guard(target)
}

// route forwards msg to the screen on top.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.overlay {
	case overlayDetail:
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	case overlayOfferForm:
		a.offerForm, cmd = a.offerForm.Update(msg)
		return a, cmd
	case overlayBookingForm:
		a.bookingForm, cmd = a.bookingForm.Update(msg)
		return a, cmd
	}
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewDiscover:
		a.discover, cmd = a.discover.Update(msg)
	case viewOffers:
		a.offers, cmd = a.offers.Update(msg)
	case viewBookings:
		a.bookingList, cmd = a.bookingList.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.overlay {
	case overlayOfferForm, overlayBookingForm:
		return true
	case overlayDetail:
		return false
	}
	return a.view == viewAuth
}

// enter opens a protected tab and starts loading its data.
func (a App) enter(target view) (App, tea.Cmd) {
	a.view = target
	a.overlay = overlayNone
	switch target {
	case viewDiscover, viewOffers:
		a.discover.loading = a.deps.Places != nil
		a.offers.loading = a.deps.Places != nil
		return a, a.fetchPlaces()
	case viewBookings:
		a.bookingList.loading = a.deps.Bookings != nil
		return a, a.fetchBookings()
	}
	return a, nil
}

func (a App) toAuth(status string) App {
	a.view = viewAuth
	a.overlay = overlayNone
	a.helpOpen = false
	a.auth = newAuthModel()
	a.auth.status = status
	return a
}

func (a App) setStatus(text string, err error) App {
	a.status = text
	a.statusErr = err != nil
	if err != nil {
		a.status = text + ": " + errorText(err)
	}
	return a
}

// busy reports whether a remote call started by the user is in flight.
func (a App) busy() bool {
	switch a.overlay {
	case overlayDetail:
		return a.detail.loading
	case overlayOfferForm:
		return a.offerForm.submitting || a.offerForm.locating
	case overlayBookingForm:
		return a.bookingForm.submitting
	}
	switch a.view {
	case viewAuth:
		return a.auth.submitting
	case viewDiscover:
		return a.discover.loading
	case viewOffers:
		return a.offers.loading
	case viewBookings:
		return a.bookingList.loading || a.bookingList.cancelling != ""
	}
	return false
}

// --- Commands ---

func unavailable(what string) error {
	return fmt.Errorf("%s is not available", what)
}

func (a App) guard(target view) tea.Cmd {
	gate, ctx := a.deps.Gate, a.ctx
	if gate == nil {
		return emit(gateMsg{target: target, allowed: true})
	}
	return func() tea.Msg {
		return gateMsg{target: target, allowed: gate.Allow(ctx)}
	}
}

func (a App) authenticate(msg submitAuthMsg) tea.Cmd {
	mgr, ctx := a.deps.Sessions, a.ctx
	if mgr == nil {
		return emit(authDoneMsg{err: unavailable("sign-in")})
	}
	return func() tea.Msg {
		var err error
		if msg.signup {
			_, err = mgr.Signup(ctx, msg.email, msg.password)
		} else {
			_, err = mgr.Login(ctx, msg.email, msg.password)
		}
		return authDoneMsg{err: err}
	}
}

func (a App) logout() tea.Cmd {
	mgr, ctx := a.deps.Sessions, a.ctx
	if mgr == nil {
		return emit(logoutDoneMsg{})
	}
	return func() tea.Msg {
		return logoutDoneMsg{err: mgr.Logout(ctx)}
	}
}

func (a App) fetchPlaces() tea.Cmd {
	svc, ctx := a.deps.Places, a.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := svc.Fetch(ctx)
		return placesFetchedMsg{list: list, err: err}
	}
}

func (a App) fetchBookings() tea.Cmd {
	svc, ctx := a.deps.Bookings, a.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := svc.Fetch(ctx)
		return bookingsFetchedMsg{list: list, err: err}
	}
}

func (a App) loadPlace(id string) tea.Cmd {
	svc, ctx, userID := a.deps.Places, a.ctx, a.userID
	if svc == nil {
		return emit(placeLoadedMsg{err: unavailable("places")})
	}
	return func() tea.Msg {
		if userID == "" {
			return placeLoadedMsg{err: domain.ErrNoUser}
		}
		p, err := svc.Get(ctx, id)
		return placeLoadedMsg{place: p, err: err}
	}
}

func (a App) locate() tea.Cmd {
	resolver, ctx := a.deps.Location, a.ctx
	if resolver == nil {
		return emit(locatedMsg{err: location.ErrLocationUnavailable})
	}
	return func() tea.Msg {
		loc, err := resolver.Locate(ctx)
		return locatedMsg{location: loc, err: err}
	}
}

func (a App) addOffer(msg submitOfferMsg) tea.Cmd {
	svc, resolver, ctx := a.deps.Places, a.deps.Location, a.ctx
	if svc == nil {
		return emit(offerSavedMsg{err: unavailable("places")})
	}
	return func() tea.Msg {
		in := msg.place
		switch {
		case msg.location != nil:
			loc := *msg.location
			in.Location = &loc
		case resolver != nil:
			loc := resolver.Resolve(ctx, msg.lat, msg.lng)
			in.Location = &loc
		default:
			in.Location = &domain.Location{Lat: msg.lat, Lng: msg.lng}
		}

		if msg.imagePath != "" {
			f, err := os.Open(msg.imagePath)
			if err != nil {
				return offerSavedMsg{err: fmt.Errorf("open image: %w", err)}
			}
			defer f.Close() //nolint:errcheck // read-only
			up, err := svc.UploadImage(ctx, msg.imagePath, f)
			if err != nil {
				return offerSavedMsg{err: err}
			}
			in.ImageURL = up.ImageURL
		}

		p, err := svc.Add(ctx, in)
		return offerSavedMsg{place: p, err: err}
	}
}

func (a App) editOffer(msg submitEditMsg) tea.Cmd {
	svc, ctx := a.deps.Places, a.ctx
	if svc == nil {
		return emit(offerSavedMsg{err: unavailable("places")})
	}
	return func() tea.Msg {
		p, err := svc.Update(ctx, msg.id, msg.title, msg.description)
		return offerSavedMsg{place: p, err: err}
	}
}

func (a App) addBooking(msg submitBookingMsg) tea.Cmd {
	svc, ctx := a.deps.Bookings, a.ctx
	if svc == nil {
		return emit(bookingSavedMsg{err: unavailable("bookings")})
	}
	return func() tea.Msg {
		b, err := svc.Add(ctx, msg.booking)
		return bookingSavedMsg{booking: b, err: err}
	}
}

func (a App) cancelBooking(id string) tea.Cmd {
	svc, ctx := a.deps.Bookings, a.ctx
	if svc == nil {
		return emit(bookingCancelledMsg{id: id, err: unavailable("bookings")})
	}
	return func() tea.Msg {
		return bookingCancelledMsg{id: id, err: svc.Cancel(ctx, id)}
	}
}

func copyCmd(msg copyMsg) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(msg.text); err != nil {
			return statusMsg{text: "copy failed", err: err}
		}
		return statusMsg{text: msg.label + " copied"}
	}
}

func browseCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return statusMsg{text: "could not open browser", err: err}
		}
		return statusMsg{text: "opened in browser"}
	}
}

// --- View ---

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	who := a.deps.Version
	if a.email != "" {
		who = a.email + " . " + who
	}
	header += "\n" + center(metaStyle.Render(strings.TrimSuffix(who, " . ")), a.width)

	tabBar := ""
	if a.view != viewAuth {
		tabBar = a.tabBar()
	}

	var body string
	var help string
	switch a.overlay {
	case overlayDetail:
		body = a.detail.View()
		help = helpBar(a.detail.helpKeys()...)
	case overlayOfferForm:
		body = a.offerForm.View()
		help = helpBar(a.offerForm.helpKeys()...)
	case overlayBookingForm:
		body = a.bookingForm.View()
		help = helpBar(keys.Next, keys.Reroll, keys.Submit, keys.Back)
	default:
		switch a.view {
		case viewAuth:
			body = a.auth.View()
			help = helpBar(keys.Next, keys.ToggleMode, keys.Submit)
		case viewDiscover:
			body = a.discover.View()
			help = helpBar(keys.TabDiscover, keys.TabOffers, keys.TabBookings, keys.Down, keys.Open, keys.Filter, keys.Refresh, keys.Help, keys.Quit)
		case viewOffers:
			body = a.offers.View()
			help = helpBar(keys.TabDiscover, keys.TabOffers, keys.TabBookings, keys.New, keys.Edit, keys.Open, keys.Help, keys.Quit)
		case viewBookings:
			body = a.bookingList.View()
			help = helpBar(keys.TabDiscover, keys.TabOffers, keys.TabBookings, keys.Cancel, keys.Copy, keys.Refresh, keys.Logout, keys.Quit)
		}
	}

	if a.helpOpen {
		body = helpView(a.deps.Version)
		help = helpBar(keys.Back)
	}

	statusLine := ""
	switch {
	case a.busy():
		statusLine = " " + a.spinner.View()
	case a.status != "" && a.statusErr:
		statusLine = " " + errorStyle.Render(a.status)
	case a.status != "":
		statusLine = " " + okStyle.Render(a.status)
	}

	// Chrome budget: header(2) + tabs(1) + status(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar, body, statusLine, help)
}

func (a App) tabBar() string {
	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "Discover", viewDiscover},
		{"2", "Offers", viewOffers},
		{"3", "Bookings", viewBookings},
	}

	colWidth := a.width / len(tabs)
	var bar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewBookings && len(a.bookingList.bookings) > 0 {
			label += " " + dimStyle.Render(fmt.Sprintf("%d", len(a.bookingList.bookings)))
		}
		labelWidth := lipgloss.Width(label)
		leftPad := maxInt((colWidth-labelWidth)/2, 0)
		rightPad := maxInt(colWidth-labelWidth-leftPad, 0)
		bar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return bar.String()
}

func center(s string, width int) string {
	pad := maxInt((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}
