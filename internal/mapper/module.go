package mapper

import "go.uber.org/fx"

// Module provides the shared entity mapper, seeded with the string and
// document codecs
var Module = fx.Module("mapper",
	fx.Provide(
		func() *Mapper {
			return UseDocuments(New())
		},
	),
)
