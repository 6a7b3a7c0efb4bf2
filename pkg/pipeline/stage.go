// Package pipeline holds the stage contract of the export pipeline, the
// values passed between its two stages, and the still-file naming scheme
// shared by the writer and the recovery path.
package pipeline

import "context"

// Stage turns one input into one output. A stage must return promptly
// with ctx.Err() once ctx is cancelled.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function act as a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// MaterializeStage writes buffered frames to disk as numbered stills.
type MaterializeStage = Stage[MaterializeInput, MaterializeResult]

// EncodeStage turns a still sequence into a clip file.
type EncodeStage = Stage[EncodeInput, EncodeResult]
