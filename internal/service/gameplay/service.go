package gameplay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/btch-engine/internal/adapter/gamepresenter"
	"github.com/park285/btch-engine/internal/adapter/viewer"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/msgcat"
	"github.com/park285/btch-engine/internal/snapshot"
	"github.com/park285/btch-engine/pkg/gamedto"
)

// Service is the request/response facade over the game manager. Every error it returns
// is a gamedto.DomainError.
type Service struct {
	manager   *game.Manager
	renderer  *viewer.Renderer
	formatter *viewer.Formatter
	catalog   *msgcat.Catalog
	logger    *zap.Logger
}

func NewService(manager *game.Manager, renderer *viewer.Renderer, catalog *msgcat.Catalog, logger *zap.Logger) (*Service, error) {
	if manager == nil {
		return nil, fmt.Errorf("game manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		manager:   manager,
		renderer:  renderer,
		formatter: viewer.NewFormatter(catalog),
		catalog:   catalog,
		logger:    logger,
	}, nil
}

func (s *Service) fail(op string, err error) error {
	de := gamepresenter.ToDomainError(err, s.catalog)
	if d, ok := de.(gamedto.DomainError); ok && d.Code == gamedto.CodeInternal {
		s.logger.Error("gameplay_internal_error", zap.String("op", op), zap.Error(err))
	}
	return de
}

func (s *Service) Create(ctx context.Context, req gamedto.CreateGameRequest) (*gamedto.CreateGameResponse, error) {
	g, err := s.manager.Create(ctx, req.UserID, game.ParseSeatPreference(req.Color))
	if err != nil {
		return nil, s.fail("create", err)
	}
	return &gamedto.CreateGameResponse{Game: gamepresenter.ToDTOGame(g)}, nil
}

func (s *Service) Join(ctx context.Context, req gamedto.JoinGameRequest) (*gamedto.JoinGameResponse, error) {
	g, seat, err := s.manager.Join(ctx, req.Meta.GameID, req.Meta.UserID, game.ParseSeatPreference(req.Color))
	if err != nil {
		return nil, s.fail("join", err)
	}
	return &gamedto.JoinGameResponse{Game: gamepresenter.ToDTOGame(g), Seat: seat.String()}, nil
}

func (s *Service) Move(ctx context.Context, req gamedto.MoveRequest) (*gamedto.MoveResponse, error) {
	mv, err := snapshot.ParseMove(req.Move)
	if err != nil {
		return nil, s.fail("move", err)
	}
	snap, g, err := s.manager.Move(ctx, req.Meta.GameID, req.Meta.UserID, mv.From.String(), mv.To.String(), mv.Promotion)
	if err != nil {
		return nil, s.fail("move", err)
	}
	dto := gamepresenter.ToDTOSnapshot(snap)
	return &gamedto.MoveResponse{Snapshot: &dto, Game: gamepresenter.ToDTOGame(g)}, nil
}

func (s *Service) Resign(ctx context.Context, req gamedto.ResignRequest) (*gamedto.ResignResponse, error) {
	g, err := s.manager.Resign(ctx, req.Meta.GameID, req.Meta.UserID)
	if err != nil {
		return nil, s.fail("resign", err)
	}
	return &gamedto.ResignResponse{Game: gamepresenter.ToDTOGame(g)}, nil
}

func (s *Service) Destinations(ctx context.Context, req gamedto.DestinationsRequest) (*gamedto.DestinationsResponse, error) {
	squares, err := s.manager.LegalDestinations(ctx, req.Meta.GameID, req.Square)
	if err != nil {
		return nil, s.fail("destinations", err)
	}
	out := make([]string, 0, len(squares))
	for _, sq := range squares {
		out = append(out, sq.String())
	}
	return &gamedto.DestinationsResponse{Squares: out}, nil
}

// View returns the latest position oriented for the requesting user, with the text
// diagram and, when asked and a renderer is configured, a PNG.
func (s *Service) View(ctx context.Context, req gamedto.ViewRequest) (*gamedto.ViewResponse, error) {
	v, err := s.manager.View(ctx, req.Meta.GameID, req.Meta.UserID)
	if err != nil {
		return nil, s.fail("view", err)
	}
	dto := gamepresenter.ToDTOView(v)
	dto.Text = s.formatter.Format(v)
	if req.WithImage && s.renderer != nil {
		img, err := s.renderer.RenderPNG(ctx, v, viewer.RenderOptions{Header: s.formatter.Status(v)})
		if err != nil {
			return nil, s.fail("view", err)
		}
		dto.Image = img
	}
	return &gamedto.ViewResponse{View: dto}, nil
}

func (s *Service) History(ctx context.Context, req gamedto.HistoryRequest) (*gamedto.HistoryResponse, error) {
	list, err := s.manager.History(ctx, req.Meta.GameID)
	if err != nil {
		return nil, s.fail("history", err)
	}
	return &gamedto.HistoryResponse{Snapshots: gamepresenter.ToDTOSnapshots(list)}, nil
}
