package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-gameboj/gameboj/backend/terminal/render"
	"github.com/valerio/go-gameboj/gameboj/video"
)

var (
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	regStyle     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	disasmStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

func tcellColor(c video.Color) tcell.Color {
	rgba := c.RGBA()
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}

func (t *Backend) render(frame video.Image) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := gameAreaWidth + 1
	panelX := dividerX + 2
	panelWidth := termWidth - panelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawGameBoy(frame)

	logsY := 0
	if t.config.ShowDebug && t.config.DebugProvider != nil {
		t.drawDebug(panelX, panelWidth, termHeight)
		logsY = registerHeight + disasmHeight + 4
	}
	t.drawLogs(panelX, logsY, panelWidth, termHeight)
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	for i, ch := range []rune(render.Truncate(text, width)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " Game Boy "
	if t.config.Title != "" {
		title = fmt.Sprintf(" %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	help := " arrows=D-pad s=A a=B d=Start space=Select | p=pause o=frame F9=snapshot F10=debug q=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawGameBoy(frame video.Image) {
	for y := 0; y+1 < frame.Height(); y += 2 {
		for x := 0; x < frame.Width(); x++ {
			ch, fg, bg := render.HalfBlock(frame.Get(x, y), frame.Get(x, y+1))
			style := tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg))
			t.screen.SetContent(x, y/2+1, ch, nil, style)
		}
	}
}

func (t *Backend) drawDebug(x, width, termHeight int) {
	data := t.config.DebugProvider()
	if data == nil || width <= 0 {
		return
	}
	cpu := data.CPU

	ime := "OFF"
	if cpu.IME {
		ime = "ON"
	}
	lines := []string{
		fmt.Sprintf("Status: %s  Halted: %t", data.State, data.Halted),
		fmt.Sprintf("A: 0x%02X  F: 0x%02X [%s]", cpu.A, cpu.F, cpu.FlagString()),
		fmt.Sprintf("B: 0x%02X  C: 0x%02X", cpu.B, cpu.C),
		fmt.Sprintf("D: 0x%02X  E: 0x%02X", cpu.D, cpu.E),
		fmt.Sprintf("H: 0x%02X  L: 0x%02X", cpu.H, cpu.L),
		fmt.Sprintf("SP: 0x%04X  PC: 0x%04X", cpu.SP, cpu.PC),
		fmt.Sprintf("IME: %s  IE: 0x%02X  IF: 0x%02X", ime, cpu.IE, cpu.IF),
		fmt.Sprintf("LCD: %s  LY: %d", data.Mode, data.LY),
		fmt.Sprintf("Cycles: %d  Frames: %d", data.Cycles, data.Frames),
	}

	t.drawText(x, 0, width, " CPU Registers ", titleStyle)
	for i, line := range lines {
		if 1+i >= termHeight-1 {
			return
		}
		t.drawText(x, 1+i, width, line, regStyle)
	}

	disasmY := registerHeight + 1
	t.drawText(x, disasmY, width, " Disassembly ", titleStyle)
	for i, line := range data.Disassembly {
		y := disasmY + 1 + i
		if i >= disasmHeight || y >= termHeight-1 {
			break
		}
		text := fmt.Sprintf("  0x%04X: %s", line.Address, line.Instruction)
		style := disasmStyle
		if line.IsCurrent {
			text = "→" + text[1:]
			style = currentStyle
		}
		t.drawText(x, y, width, text, style)
	}
}

func (t *Backend) drawLogs(x, startY, width, termHeight int) {
	available := termHeight - startY - 2
	if width <= 0 || available <= 0 {
		return
	}
	t.drawText(x, startY, width, " Logs ", titleStyle)

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	row := 0
	for _, entry := range t.logBuffer.GetRecent(0) {
		if row >= available {
			break
		}
		if entry.Level < t.logLevel {
			continue
		}

		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(x, startY+1+row, width, render.FormatLogEntry(entry), style)
		row++
	}
}
