package sandbox

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// checkTimeout bounds the pre-flight run so a script with an infinite
// loop cannot stall preview creation.
const checkTimeout = 100 * time.Millisecond

// domShim is a minimal document/window surface. Every lookup returns a
// usable stub element so that typical wiring code (grab an element,
// attach a listener, poke its style) runs to completion; only genuinely
// broken scripts throw.
const domShim = `
var __loadHandlers = [];
function __stubElement() {
  var el = {
    style: {},
    textContent: '',
    innerHTML: '',
    value: '',
    dataset: {},
    classList: {
      add: function() {}, remove: function() {},
      toggle: function() {}, contains: function() { return false; }
    },
    addEventListener: function() {},
    removeEventListener: function() {},
    setAttribute: function() {},
    getAttribute: function() { return null; },
    appendChild: function(c) { return c; },
    removeChild: function(c) { return c; },
    querySelector: function() { return __stubElement(); },
    querySelectorAll: function() { return []; }
  };
  return el;
}
var document = {
  addEventListener: function(type, fn) {
    if (type === 'DOMContentLoaded') { __loadHandlers.push(fn); }
  },
  removeEventListener: function() {},
  querySelector: function() { return __stubElement(); },
  querySelectorAll: function() { return []; },
  getElementById: function() { return __stubElement(); },
  createElement: function() { return __stubElement(); },
  body: __stubElement()
};
var window = {
  addEventListener: function() {},
  removeEventListener: function() {},
  document: document
};
var console = { log: function() {}, warn: function() {}, error: function() {} };
function setTimeout(fn) { return 0; }
function setInterval(fn) { return 0; }
function clearTimeout() {}
function clearInterval() {}
function requestAnimationFrame(fn) { return 0; }
`

// CheckScript compiles and dry-runs raw user script against the DOM
// shim. A non-nil error means the script would fail inside the preview
// too; callers log it and let the in-preview fallback take over rather
// than blocking preview creation.
func CheckScript(src string) error {
	prog, err := goja.Compile("frame-script.js", src, false)
	if err != nil {
		return fmt.Errorf("compile frame script: %w", err)
	}

	vm := goja.New()
	timer := time.AfterFunc(checkTimeout, func() {
		vm.Interrupt("script check timed out")
	})
	defer timer.Stop()

	if _, err := vm.RunString(domShim); err != nil {
		return fmt.Errorf("install dom shim: %w", err)
	}
	if _, err := vm.RunProgram(prog); err != nil {
		return fmt.Errorf("run frame script: %w", err)
	}
	// Scripts typically defer their wiring to DOMContentLoaded; fire it
	// so that path is exercised as well.
	if _, err := vm.RunString("__loadHandlers.forEach(function(fn) { fn(); });"); err != nil {
		return fmt.Errorf("run load handlers: %w", err)
	}
	return nil
}
