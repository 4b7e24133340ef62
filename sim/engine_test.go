package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	var engine *Engine

	BeforeEach(func() {
		engine = NewEngine()
	})

	It("should run events in time order", func() {
		var order []string

		engine.Schedule(4, func(now VTimeInSec) { order = append(order, "a") })
		engine.Schedule(2, func(now VTimeInSec) { order = append(order, "b") })
		engine.Schedule(3, func(now VTimeInSec) { order = append(order, "c") })

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"b", "c", "a"}))
		Expect(engine.Now()).To(Equal(VTimeInSec(4)))
	})

	It("should break ties by insertion order", func() {
		var order []int

		for i := 0; i < 5; i++ {
			i := i
			engine.Schedule(1, func(now VTimeInSec) { order = append(order, i) })
		}

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("should run zero-delay events scheduled by a callback strictly after it", func() {
		var order []string

		engine.Schedule(1, func(now VTimeInSec) {
			order = append(order, "first")
			engine.Schedule(0, func(now VTimeInSec) {
				order = append(order, "chained")
			})
			order = append(order, "first-done")
		})

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"first", "first-done", "chained"}))
	})

	It("should make cancel idempotent", func() {
		ran := false
		h := engine.Schedule(1, func(now VTimeInSec) { ran = true })

		Expect(engine.Cancel(h)).To(BeTrue())
		Expect(engine.Cancel(h)).To(BeFalse())

		Expect(engine.Run()).To(Succeed())
		Expect(ran).To(BeFalse())
	})

	It("should treat cancelling an already-fired event as a no-op", func() {
		h := engine.Schedule(1, func(now VTimeInSec) {})
		Expect(engine.Run()).To(Succeed())

		Expect(engine.Cancel(h)).To(BeFalse())
	})

	It("should panic on a negative delay", func() {
		Expect(func() {
			engine.Schedule(-1, func(now VTimeInSec) {})
		}).To(Panic())
	})

	It("should stop at the until bound without losing later events", func() {
		var order []string
		engine.Schedule(1, func(now VTimeInSec) { order = append(order, "early") })
		engine.Schedule(5, func(now VTimeInSec) { order = append(order, "late") })

		Expect(engine.Run(VTimeInSec(2))).To(Succeed())
		Expect(order).To(Equal([]string{"early"}))
		Expect(engine.Pending()).To(Equal(1))

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"early", "late"}))
	})

	It("should invoke reset hooks in registration order and clear the queue", func() {
		var order []string
		engine.RegisterResetHook(func() { order = append(order, "first") })
		engine.RegisterResetHook(func() { order = append(order, "second") })

		fired := false
		engine.Schedule(1, func(now VTimeInSec) { fired = true })

		engine.Reset()

		Expect(order).To(Equal([]string{"first", "second"}))
		Expect(engine.Now()).To(Equal(VTimeInSec(0)))
		Expect(engine.Pending()).To(Equal(0))

		Expect(engine.Run()).To(Succeed())
		Expect(fired).To(BeFalse())
	})

	It("should be byte-for-byte reproducible across an immediate reset", func() {
		var firstRun, secondRun []VTimeInSec

		schedule := func(dst *[]VTimeInSec) {
			engine.Schedule(3, func(now VTimeInSec) { *dst = append(*dst, now) })
			engine.Schedule(1, func(now VTimeInSec) { *dst = append(*dst, now) })
			engine.Schedule(1, func(now VTimeInSec) { *dst = append(*dst, now) })
		}

		schedule(&firstRun)
		Expect(engine.Run()).To(Succeed())

		engine.Reset()

		schedule(&secondRun)
		Expect(engine.Run()).To(Succeed())

		Expect(secondRun).To(Equal(firstRun))
	})

	It("should invoke before/after event hooks around every callback", func() {
		var positions []*HookPos
		engine.AcceptHook(hookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		engine.Schedule(1, func(now VTimeInSec) {})
		Expect(engine.Run()).To(Succeed())

		Expect(positions).To(Equal([]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})
})

type hookFunc func(ctx HookCtx)

func (f hookFunc) Func(ctx HookCtx) { f(ctx) }
