//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/engine"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/sandbox"
)

// The wasm build runs the full editor locally for single-user sessions:
// same engine, same sandbox previews, no server round trips. The
// frontend feeds raw pointer and key events in and receives editor
// events through a registered callback.

var (
	ed       *engine.Editor
	opLog    *history.Log
	previews *sandbox.Registry
	onEvent  js.Value
)

func main() {
	loadDoc(document.NewSampleDocument("proj_local", "Playground"))

	api := js.Global().Get("Object").New()

	// Document lifecycle
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("getDocument", js.FuncOf(getDocument))

	// Input
	api.Set("pointerDown", js.FuncOf(pointerEvent((*engine.Editor).HandlePointerDown)))
	api.Set("pointerMove", js.FuncOf(pointerEvent((*engine.Editor).HandlePointerMove)))
	api.Set("pointerUp", js.FuncOf(pointerEvent((*engine.Editor).HandlePointerUp)))
	api.Set("keyDown", js.FuncOf(keyEvent((*engine.Editor).HandleKeyDown)))
	api.Set("keyUp", js.FuncOf(keyEvent((*engine.Editor).HandleKeyUp)))

	// Viewport
	api.Set("pan", js.FuncOf(pan))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("windowResized", js.FuncOf(windowResized))
	api.Set("getViewport", js.FuncOf(getViewport))

	// Modes and commands
	api.Set("setCanvasMode", js.FuncOf(setCanvasMode))
	api.Set("setCommentMode", js.FuncOf(setCommentMode))
	api.Set("beginPlacement", js.FuncOf(beginPlacement))
	api.Set("beginTextEdit", js.FuncOf(beginTextEdit))
	api.Set("setElementText", js.FuncOf(setElementText))
	api.Set("endTextEdit", js.FuncOf(endTextEdit))

	// Queries
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getCanvasMode", js.FuncOf(getCanvasMode))
	api.Set("edgeHint", js.FuncOf(edgeHint))
	api.Set("getMarquee", js.FuncOf(getMarquee))
	api.Set("getPreviews", js.FuncOf(getPreviews))
	api.Set("getOperations", js.FuncOf(getOperations))

	// Event fanout
	api.Set("subscribe", js.FuncOf(subscribe))

	js.Global().Set("canvasEditor", api)
	js.Global().Set("canvasEditorReady", js.ValueOf(true))

	select {}
}

func loadDoc(doc *document.CanvasDocument) {
	opLog = history.NewLog()
	previews = sandbox.NewRegistry(slog.Default())
	ed = engine.NewEditor(doc, opLog, previews)
	ed.Events().Subscribe(func(ev engine.Event) {
		if onEvent.Truthy() {
			data, err := json.Marshal(ev)
			if err != nil {
				return
			}
			onEvent.Invoke(string(data))
		}
	})
}

// --- Document lifecycle ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}
	var doc document.CanvasDocument
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return errResult(err.Error())
	}
	loadDoc(&doc)
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_local"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}
	loadDoc(document.NewSampleDocument(projectID, "Playground"))
	return okResult()
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return marshalResult(ed.Document())
}

// --- Input ---

func pointerEvent(apply func(*engine.Editor, engine.PointerEvent)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 || args[0].Type() != js.TypeObject {
			return nil
		}
		ev := args[0]
		apply(ed, engine.PointerEvent{
			X:      ev.Get("x").Float(),
			Y:      ev.Get("y").Float(),
			Button: intField(ev, "button"),
			Alt:    boolField(ev, "alt"),
			Shift:  boolField(ev, "shift"),
			Ctrl:   boolField(ev, "ctrl"),
			Meta:   boolField(ev, "meta"),
		})
		return nil
	}
}

func keyEvent(apply func(*engine.Editor, engine.KeyEvent)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 || args[0].Type() != js.TypeObject {
			return nil
		}
		ev := args[0]
		apply(ed, engine.KeyEvent{
			Key:   ev.Get("key").String(),
			Alt:   boolField(ev, "alt"),
			Shift: boolField(ev, "shift"),
		})
		return nil
	}
}

// --- Viewport ---

func pan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.Pan(args[0].Float(), args[1].Float())
	return nil
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.SetZoom(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func windowResized(this js.Value, args []js.Value) interface{} {
	ed.WindowResized()
	return nil
}

func getViewport(this js.Value, args []js.Value) interface{} {
	vp := ed.Viewport()
	return js.ValueOf(map[string]interface{}{
		"zoom":       vp.Zoom,
		"translateX": vp.TranslateX,
		"translateY": vp.TranslateY,
	})
}

// --- Modes and commands ---

func setCanvasMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetCanvasMode(engine.CanvasMode(args[0].String()))
	return nil
}

func setCommentMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetCommentMode(args[0].Bool())
	return nil
}

func beginPlacement(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	kind := document.Kind(args[0].String())
	tag := ""
	if len(args) > 1 {
		tag = args[1].String()
	}
	return js.ValueOf(ed.BeginPlacement(kind, tag))
}

func beginTextEdit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.BeginTextEdit(args[0].String())
	return nil
}

func setElementText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetElementText(args[0].String(), args[1].String())
	return nil
}

func endTextEdit(this js.Value, args []js.Value) interface{} {
	ed.EndTextEdit()
	return nil
}

// --- Queries ---

func getSelection(this js.Value, args []js.Value) interface{} {
	return marshalResult(ed.Selection())
}

func getCanvasMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(ed.CanvasMode()))
}

func edgeHint(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(string(ed.EdgeHint(args[0].Float(), args[1].Float())))
}

func getMarquee(this js.Value, args []js.Value) interface{} {
	rect, ok := ed.MarqueeRect()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(map[string]interface{}{
		"x":      rect.X,
		"y":      rect.Y,
		"width":  rect.Width,
		"height": rect.Height,
	})
}

func getPreviews(this js.Value, args []js.Value) interface{} {
	return marshalResult(previews.Snapshot())
}

func getOperations(this js.Value, args []js.Value) interface{} {
	return marshalResult(opLog.Operations())
}

// --- Event fanout ---

func subscribe(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return errResult("subscribe expects a function")
	}
	onEvent = args[0]
	return okResult()
}

// --- Helpers ---

func intField(v js.Value, key string) int {
	f := v.Get(key)
	if f.Type() != js.TypeNumber {
		return 0
	}
	return f.Int()
}

func boolField(v js.Value, key string) bool {
	f := v.Get(key)
	return f.Type() == js.TypeBoolean && f.Bool()
}

func marshalResult(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
