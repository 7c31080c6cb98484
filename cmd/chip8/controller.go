package main

import (
	"time"

	"github.com/hexaflex/chip8/chip8"
)

// Controller controls the execution of a CPU.
type Controller struct {
	cpu        *chip8.CPU
	input      chip8.Input
	host       chip8.Host
	trace      chip8.TraceFunc
	start      time.Time
	lastTick   time.Time
	cycleCount uint64
	running    bool
}

// NewController creates a new CPU controller.
func NewController(input chip8.Input, host chip8.Host, trace chip8.TraceFunc) *Controller {
	return &Controller{
		input: input,
		host:  host,
		trace: trace,
	}
}

// Running returns true if the CPU is currently running.
func (c *Controller) Running() bool {
	return c.running
}

// CPU returns the current virtual machine instance. This is nil
// until Startup has been called.
func (c *Controller) CPU() *chip8.CPU {
	return c.cpu
}

// Frequency returns the effective clock frequency in herz.
func (c *Controller) Frequency() float64 {
	if c.running {
		return float64(c.cycleCount) / time.Since(c.start).Seconds()
	}
	return 0
}

// ToggleRun starts or stops program execution.
func (c *Controller) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *Controller) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *Controller) Stop() {
	c.setRunning(false)
}

// Step performs a single execution step.
func (c *Controller) Step() error {
	if c.cpu == nil {
		return nil
	}

	c.cycleCount++

	err := c.cpu.Step()
	if err != nil {
		c.setRunning(false)
		return err
	}

	return nil
}

// TickTimers decrements the delay and sound timers at a 60 Hz rate.
// It is safe to call every frame; excess calls are ignored.
func (c *Controller) TickTimers() {
	if c.cpu == nil || !c.running {
		return
	}
	if time.Since(c.lastTick) >= time.Second/60 {
		c.lastTick = time.Now()
		c.cpu.TickTimers()
	}
}

// Startup initializes a fresh virtual machine with the given program.
func (c *Controller) Startup(program []byte) error {
	cpu, err := chip8.New(program, c.input, c.host, c.trace)
	if err != nil {
		return err
	}

	c.cpu = cpu
	c.setRunning(c.running)
	return nil
}

// setRunning determines if the CPU is running or is paused.
func (c *Controller) setRunning(v bool) {
	c.running = v
	c.start = time.Now()
	c.lastTick = c.start
	c.cycleCount = 0
}
