package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

const publishUsage = "Usage: /publish <from> | <to> | [date YYYY-MM-DD] | [time HH:MM] | [seats] | [price]"

func (b *Bot) registerDriverHandlers() {
	b.Bot.Handle("/publish", b.loggedIn(b.handlePublish))
	b.Bot.Handle("/myrides", b.loggedIn(b.handleDriverRides))
	b.Bot.Handle("/deleteride", b.loggedIn(b.handleDeleteRide))
}

// parsePublishArgs reads a pipe-separated ride offer. Blank trailing fields keep
// the publishing defaults.
func parsePublishArgs(payload string) (models.PublishRideRequest, error) {
	var req models.PublishRideRequest
	parts := strings.Split(payload, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return req, errors.New(publishUsage)
	}
	if len(parts) > 6 {
		return req, fmt.Errorf("too many fields\n%s", publishUsage)
	}

	req.From, req.To = parts[0], parts[1]
	if len(parts) > 2 {
		req.Date = parts[2]
	}
	if len(parts) > 3 {
		req.Time = parts[3]
	}
	if len(parts) > 4 && parts[4] != "" {
		seats, err := strconv.Atoi(parts[4])
		if err != nil {
			return req, errors.New("seats must be a number")
		}
		req.Seats = seats
	}
	if len(parts) > 5 && parts[5] != "" {
		price, err := strconv.ParseInt(parts[5], 10, 64)
		if err != nil {
			return req, errors.New("price must be a number")
		}
		req.PricePerSeat = price
	}
	return req, nil
}

func (b *Bot) handlePublish(c tele.Context, s *UserSession) error {
	req, err := parsePublishArgs(c.Message().Payload)
	if err != nil {
		return c.Send(err.Error())
	}

	ctx, cancel := b.ctx()
	defer cancel()

	driver, err := b.Svc.User().GetByID(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}
	if driver == nil {
		return c.Send(msgLoginFirst)
	}
	ride, err := b.Svc.Ride().Publish(ctx, driver, req)
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send("🚀 Ride published!\n\n" + formatRide(ride))
}

func (b *Bot) handleDriverRides(c tele.Context, s *UserSession) error {
	ctx, cancel := b.ctx()
	defer cancel()

	rides, err := b.Svc.Ride().GetDriverRides(ctx, s.UserID)
	if err != nil {
		return b.fail(c, err)
	}
	if len(rides) == 0 {
		return c.Send("You have not published any rides. Try /publish.")
	}
	for _, r := range rides {
		if err := c.Send(formatRide(r)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleDeleteRide(c tele.Context, s *UserSession) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /deleteride <rideID>")
	}

	ctx, cancel := b.ctx()
	defer cancel()
	if err := b.Svc.Ride().Delete(ctx, s.UserID, args[0]); err != nil {
		return b.fail(c, err)
	}
	return c.Send("🗑 Ride deleted.")
}
