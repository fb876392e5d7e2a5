// Package sway is a tweening and sequencing engine for [Ebitengine] games.
//
// Sway animates any value reachable through a getter/setter pair: floats,
// ints, [Vec2] positions, [Color] tints, or your own types through a
// [Plugin]. Tweens can be grouped on a [Sequence] timeline together with
// callbacks, gaps and nested sequences. Everything is owned by a [Manager],
// which pools killed animations so steady-state play does not allocate.
//
// # Quick start
//
// Create a manager, start tweens, and advance the manager once per frame:
//
//	m, err := sway.NewManager(sway.DefaultSettings())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var x float64
//	t := sway.Float64Ptr(m, &x, 100, 0.5)
//	t.SetEase(ease.OutBack)
//	t.OnComplete(func() { fmt.Println("arrived") })
//
//	// in ebiten.Game.Update:
//	dt := float32(1) / float32(ebiten.TPS())
//	m.Update(sway.UpdateNormal, dt, dt)
//
// The driver subpackage wraps an [ebiten.Game] and runs the normal and late
// passes around it, so most games never call Update themselves.
//
// # Animations
//
// [Tween] and [Sequence] share the controls of the embedded [Animation]:
// Play, Pause, Rewind, Restart, Goto, Complete, Kill and friends. Settings
// such as loops, ease and delay are fixed once an animation first updates
// or joins a sequence.
//
// Each loop of an animation runs from position 0 to its duration. With
// [LoopYoyo] every odd loop plays backwards. Callbacks fire on the edges a
// step crosses, so a single large step fires the same callbacks as many
// small ones.
//
// # Sequences
//
//	s := m.Sequence()
//	s.Append(sway.VectorPtr(m, &pos, sway.Vec2{X: 200}, 1))
//	s.Join(sway.Float64Ptr(m, &alpha, 0, 1))
//	s.AppendInterval(0.25)
//	s.AppendCallback(func() { fmt.Println("halfway") })
//	s.SetLoops(2, sway.LoopYoyo)
//
// Inserted animations belong to the sequence: they die with it and cannot
// be controlled on their own.
//
// # Targets
//
// Accessors report a vanished target by returning an error such as
// [ErrTargetInvalid]; the tween is then killed instead of writing to freed
// state. [Guard] wraps an accessor pair with a liveness check, and
// [Manager.Validate] sweeps every live tween on demand.
//
// # Configuration
//
// [Settings] can be built in code or loaded from YAML with [LoadSettings].
// A [SettingsWatcher] reloads the file when it changes on disk, and
// [Manager.ApplyPending] applies the reload from the game loop.
//
// # Events
//
// Besides per-animation callbacks, a manager can publish lifecycle edges as
// [AnimationEvent] values to an [EventSink]. The ecs subpackage provides a
// sink that feeds a donburi world.
//
// [Ebitengine]: https://ebitengine.org
package sway
