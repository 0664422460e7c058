package eventbus

import (
	"context"
	"log/slog"

	"distrotui/internal/domain"
)

// Audit returns a handler that writes one log record per event
func Audit(logger *slog.Logger) EventHandler {
	return func(event DomainEvent) {
		level := slog.LevelInfo
		attrs := []slog.Attr{slog.String("event", string(event.Type()))}

		switch e := event.(type) {
		case domain.NavigatedEvent:
			attrs = append(attrs, slog.String("from", e.From), slog.String("to", e.To))
		case domain.QueryChangedEvent:
			attrs = append(attrs, slog.String("collection", string(e.Collection)), slog.String("location", e.Location))
		case domain.PageLoadedEvent:
			level = slog.LevelDebug
			attrs = append(attrs,
				slog.String("collection", string(e.Collection)),
				slog.Uint64("seq", e.Seq),
				slog.Int("page", e.Page),
				slog.Int("items", e.Items),
				slog.Int("total", e.Total))
		case domain.PageOverflowEvent:
			level = slog.LevelWarn
			attrs = append(attrs,
				slog.String("collection", string(e.Collection)),
				slog.Uint64("seq", e.Seq),
				slog.Int("size", e.Size),
				slog.Int("dropped", e.Dropped))
		case domain.FetchFailedEvent:
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("collection", string(e.Collection)), slog.Uint64("seq", e.Seq), errAttr(e.Err))
		case domain.StaleDiscardedEvent:
			level = slog.LevelDebug
			attrs = append(attrs, slog.String("collection", string(e.Collection)), slog.Uint64("seq", e.Seq), slog.Uint64("latest", e.Latest))
		case domain.BatchSubmittedEvent:
			attrs = append(attrs,
				slog.String("action", e.Action),
				slog.Int("targets", e.Targets),
				slog.String("id", e.ID.String()),
				slog.String("location", e.Location))
		case domain.BatchFailedEvent:
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("action", e.Action), errAttr(e.Err))
		case domain.ConfigLoadedEvent:
			attrs = append(attrs, slog.String("path", e.Path), slog.String("api_url", e.APIURL))
		case domain.ConfigSavedEvent:
			attrs = append(attrs, slog.String("path", e.Path))
		case domain.LocationCopiedEvent:
			attrs = append(attrs, slog.String("location", e.Location))
		}

		logger.LogAttrs(context.Background(), level, "audit", attrs...)
	}
}

func errAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
