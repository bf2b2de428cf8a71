package user

import (
	"github.com/orgdesk/orgdesk/internal/user/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("user.lookup",
	fx.Provide(repository.NewRepository),
)
