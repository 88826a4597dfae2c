package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/abhijeet-0165/ridefusion/config"
	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/service"
)

type UserSession struct {
	UserID string
	Name   string
}

type Bot struct {
	Bot *tele.Bot
	Log logger.ILogger
	Cfg *config.Config
	Svc service.IServiceManager

	mu       sync.Mutex
	sessions map[int64]*UserSession
}

var (
	btnBook   = tele.Btn{Unique: "book"}
	btnCancel = tele.Btn{Unique: "cancel"}
	btnPass   = tele.Btn{Unique: "buypass"}
)

func New(cfg *config.Config, svc service.IServiceManager, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.Error(err))
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:      b,
		Log:      log,
		Cfg:      cfg,
		Svc:      svc,
		sessions: make(map[int64]*UserSession),
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("telegram bot started", logger.String("username", b.Bot.Me.Username))
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/login", b.handleLogin)
	b.Bot.Handle("/rides", b.handleRides)

	b.Bot.Handle("/book", b.loggedIn(b.handleBook))
	b.Bot.Handle("/trips", b.loggedIn(b.handleTrips))
	b.Bot.Handle("/cancel", b.loggedIn(b.handleCancel))
	b.Bot.Handle("/wallet", b.loggedIn(b.handleWallet))
	b.Bot.Handle("/topup", b.loggedIn(b.handleTopUp))
	b.Bot.Handle("/passes", b.loggedIn(b.handlePasses))
	b.Bot.Handle("/buypass", b.loggedIn(b.handleBuyPass))

	b.registerDriverHandlers()

	b.Bot.Handle(&btnBook, b.loggedIn(b.handleBookCallback))
	b.Bot.Handle(&btnCancel, b.loggedIn(b.handleCancelCallback))
	b.Bot.Handle(&btnPass, b.loggedIn(b.handleBuyPassCallback))
}

func (b *Bot) session(telegramID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[telegramID]
}

func (b *Bot) setSession(telegramID int64, s *UserSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[telegramID] = s
}

type sessionHandler func(c tele.Context, s *UserSession) error

func (b *Bot) loggedIn(next sessionHandler) tele.HandlerFunc {
	return func(c tele.Context) error {
		s := b.session(c.Sender().ID)
		if s == nil {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: msgLoginFirst, ShowAlert: true})
			}
			return c.Send(msgLoginFirst)
		}
		return next(c, s)
	}
}

func (b *Bot) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func (b *Bot) fail(c tele.Context, err error) error {
	b.Log.Warning("telegram request failed",
		logger.Int64("telegram_id", c.Sender().ID),
		logger.Error(err),
	)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
	}
	return c.Send(userMessage(err))
}

func (b *Bot) handleStart(c tele.Context) error {
	if s := b.session(c.Sender().ID); s != nil {
		return c.Send(fmt.Sprintf("Welcome back, %s!\n\n%s", s.Name, msgHelp))
	}
	return c.Send(msgWelcome + "\n\n" + msgHelp)
}

func (b *Bot) handleLogin(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /login <email> <password>")
	}
	ctx, cancel := b.ctx()
	defer cancel()

	user, err := b.Svc.User().Login(ctx, args[0], args[1])
	if err != nil {
		return b.fail(c, err)
	}
	b.setSession(c.Sender().ID, &UserSession{UserID: user.ID, Name: user.Name})
	b.Log.Info("telegram login", logger.Int64("telegram_id", c.Sender().ID), logger.String("user_id", user.ID))

	// the password should not linger in the chat history
	_ = c.Delete()
	return c.Send(fmt.Sprintf("Logged in as %s.", user.Name))
}

func (b *Bot) handleRides(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	rides, err := b.Svc.Ride().Search(ctx, models.RideFilter{LocationQuery: c.Message().Payload})
	if err != nil {
		return b.fail(c, err)
	}
	if len(rides) == 0 {
		return c.Send("No rides match right now.")
	}
	for _, r := range rides {
		menu := &tele.ReplyMarkup{}
		menu.Inline(menu.Row(menu.Data("Book a seat", btnBook.Unique, r.ID)))
		if err := c.Send(formatRide(r), menu); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleBook(c tele.Context, s *UserSession) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /book <rideID>")
	}
	return b.book(c, s, args[0])
}

func (b *Bot) handleBookCallback(c tele.Context, s *UserSession) error {
	if err := b.book(c, s, c.Data()); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) book(c tele.Context, s *UserSession, rideID string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	res, err := b.Svc.Booking().Book(ctx, s.UserID, rideID)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(formatBookingResult(res))
}

func (b *Bot) handleTrips(c tele.Context, s *UserSession) error {
	ctx, cancel := b.ctx()
	defer cancel()

	bookings, err := b.Svc.Booking().GetUserBookings(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}
	if len(bookings) == 0 {
		return c.Send("You have no upcoming trips.")
	}
	for _, bk := range bookings {
		menu := &tele.ReplyMarkup{}
		menu.Inline(menu.Row(menu.Data("Cancel", btnCancel.Unique, bk.ID)))
		if err := c.Send(formatBooking(bk), menu); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleCancel(c tele.Context, s *UserSession) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /cancel <bookingID>")
	}
	return b.cancel(c, s, args[0])
}

func (b *Bot) handleCancelCallback(c tele.Context, s *UserSession) error {
	if err := b.cancel(c, s, c.Data()); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) cancel(c tele.Context, s *UserSession, bookingID string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	res, err := b.Svc.Booking().Cancel(ctx, s.UserID, bookingID)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(fmt.Sprintf("Cancelled %s.\nRefunded ₹%d. Balance: ₹%d",
		res.Booking.Route, res.Booking.Amount, res.Wallet.Balance))
}

func (b *Bot) handleWallet(c tele.Context, s *UserSession) error {
	ctx, cancel := b.ctx()
	defer cancel()

	w, err := b.Svc.Wallet().Load(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(formatWallet(w))
}

func (b *Bot) handleTopUp(c tele.Context, s *UserSession) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /topup <amount>")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Amount must be a whole number of rupees.")
	}

	ctx, cancel := b.ctx()
	defer cancel()
	w, err := b.Svc.Wallet().TopUp(ctx, s.UserID, amount)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(fmt.Sprintf("Added ₹%d. Balance: ₹%d", amount, w.Balance))
}

func (b *Bot) handlePasses(c tele.Context, s *UserSession) error {
	ctx, cancel := b.ctx()
	defer cancel()

	active, err := b.Svc.Pass().LoadActive(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}
	offers, err := b.Svc.Pass().CatalogFor(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}

	var sb strings.Builder
	if len(active) > 0 {
		sb.WriteString("Your passes:\n")
		for _, p := range active {
			sb.WriteString(formatPass(p, b.Svc.Pass().DaysLeft(p)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Available:")

	menu := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, o := range offers {
		sb.WriteString("\n")
		sb.WriteString(formatOffer(o))
		rows = append(rows, menu.Row(menu.Data("Buy "+o.Title, btnPass.Unique, strconv.Itoa(o.ID))))
	}
	menu.Inline(rows...)
	return c.Send(sb.String(), menu)
}

func (b *Bot) handleBuyPass(c tele.Context, s *UserSession) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /buypass <optionID>")
	}
	return b.buyPass(c, s, args[0])
}

func (b *Bot) handleBuyPassCallback(c tele.Context, s *UserSession) error {
	if err := b.buyPass(c, s, c.Data()); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) buyPass(c tele.Context, s *UserSession, raw string) error {
	optionID, err := strconv.Atoi(raw)
	if err != nil {
		return c.Send("Pass option must be a number.")
	}

	ctx, cancel := b.ctx()
	defer cancel()
	res, err := b.Svc.Pass().Purchase(ctx, s.UserID, optionID)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(fmt.Sprintf("Bought %s, valid for %d days. Balance: ₹%d",
		res.Pass.Title, res.Pass.ValidDays, res.Wallet.Balance))
}
