// Package bgew is a small 2D board game engine for [Ebitengine].
//
// A [Board] owns a canvas, a list of top-level entities, a set of named
// game steps, and a collision index. It ticks at a fixed rate: each tick
// routes queued input, delivers network messages, advances sounds, and
// then updates, collides and draws the active [GameStep].
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and
// drives the board from the ebiten game loop:
//
//	board := bgew.NewBoard(bgew.DefaultConfig())
//	board.AddStep("main", bgew.StepFuncs{
//		Enter: func(s *bgew.GameStep, _ any) {
//			s.Board().AddEntity(bgew.NewSquare(100, 100, 80, 40, bgew.ShapeStyles{
//				Normal: bgew.ShapeStyle{Fill: bgew.ColorWhite},
//			}))
//		},
//	})
//	board.SetStep("main")
//	bgew.Run(board, bgew.RunConfig{Title: "My Game"})
//
// Headless hosts and tests skip Run: they build the board with a
// [ManualScheduler] or call [Board.Tick] directly, and read the frame back
// from a [RecordCanvas].
//
// # Entities
//
// Every object on a board is an [Entity]. One flat struct covers both
// plain entities and containers; containers hold an ordered list of
// children positioned relative to the container's top-left corner.
// Entities draw through a [Renderer], react to input through [Entity.On],
// and share handler bundles through [Behavior] values such as [Pressable]
// and [Hoverable].
//
//	box := bgew.NewEntity(10, 10, 50, 50)
//	box.Renderer = bgew.RendererFunc(func(e *bgew.Entity, c bgew.Canvas) {
//		c.FillRect(e.X, e.Y, e.Width(), e.Height())
//	})
//	box.On(bgew.EventClick, func(ev bgew.InputEvent) { ... })
//
// # Steps
//
// A [GameStep] is one state of the game. [Board.MoveToStep] leaves the
// current step, resets the board, and enters the next one with the given
// data; [Board.FadeToStep] does the same behind a fading overlay. Each
// step owns a [Camera] and its timers.
//
// # Collisions and gravity
//
// Every attached entity has one body in the board's collision index
// (package collision). Entities watch for overlaps with
// [Entity.OnIntersectEntity], [Entity.OnIntersectPoint] and
// [Entity.OnIntersectAny]. Weighted entities fall under the board gravity
// and come to rest on solid ones.
//
// # Services
//
// Package network is a room API and websocket client whose messages are
// delivered to step hooks on the tick. Sounds play through an
// [AudioBackend], [EbitenAudio] in a window. Package ecs forwards
// interaction events into a Donburi world.
//
// [Ebitengine]: https://ebitengine.org
package bgew
