package server

import (
	"html/template"
	"net/http"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="app"></div>
<script>{{.Client}}</script>
</body>
</html>
`))

// clientJS is the wire client: it decodes patch frames into DOM
// mutations and encodes DOM events back. It must stay in sync with
// the protocol package.
const clientJS = `
(function () {
  "use strict";

  var FRAME_PATCHES = 0x01, FRAME_EVENT = 0x02, FRAME_PING = 0x03, FRAME_PONG = 0x04;
  var OP_CREATE_ELEMENT = 0x01, OP_CREATE_TEXT = 0x02, OP_CREATE_RAW = 0x03,
      OP_SET_TEXT = 0x04, OP_SET_ATTR = 0x05, OP_REMOVE_ATTR = 0x06,
      OP_REMOVE = 0x07, OP_LISTEN = 0x08, OP_UNLISTEN = 0x09,
      OP_MOVE = 0x0a;

  var utf8dec = new TextDecoder();
  var utf8enc = new TextEncoder();

  function Reader(buf) {
    this.v = new Uint8Array(buf);
    this.pos = 0;
  }
  Reader.prototype.byte = function () {
    if (this.pos >= this.v.length) throw new Error("short frame");
    return this.v[this.pos++];
  };
  Reader.prototype.uvarint = function () {
    var x = 0, s = 1;
    for (;;) {
      var b = this.byte();
      if (b < 0x80) return x + s * b;
      x += s * (b & 0x7f);
      s *= 128;
    }
  };
  Reader.prototype.svarint = function () {
    var u = this.uvarint();
    return u % 2 === 0 ? u / 2 : -(u + 1) / 2;
  };
  Reader.prototype.string = function () {
    var n = this.uvarint();
    var s = utf8dec.decode(this.v.subarray(this.pos, this.pos + n));
    this.pos += n;
    return s;
  };

  function Writer() { this.bytes = []; }
  Writer.prototype.byte = function (b) { this.bytes.push(b & 0xff); };
  Writer.prototype.uvarint = function (x) {
    while (x >= 0x80) {
      this.byte((x % 128) | 0x80);
      x = Math.floor(x / 128);
    }
    this.byte(x);
  };
  Writer.prototype.svarint = function (x) {
    this.uvarint(x >= 0 ? x * 2 : -x * 2 - 1);
  };
  Writer.prototype.string = function (s) {
    var b = utf8enc.encode(s);
    this.uvarint(b.length);
    for (var i = 0; i < b.length; i++) this.bytes.push(b[i]);
  };
  Writer.prototype.bool = function (v) { this.byte(v ? 1 : 0); };
  Writer.prototype.finish = function () { return new Uint8Array(this.bytes); };

  var nodes = { 0: document.getElementById("app") };
  var listeners = {}; // listener id -> {node, trigger, fn}
  var eventSeq = 0;

  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  ws.binaryType = "arraybuffer";

  function sendEvent(listenerID, trigger, ev) {
    var w = new Writer();
    w.byte(FRAME_EVENT);
    w.uvarint(++eventSeq);
    w.uvarint(listenerID);
    w.string(trigger);
    var t = ev.target || {};
    w.string(typeof t.value === "string" ? t.value : "");
    w.bool(!!t.checked);
    w.string(ev.key || "");
    w.svarint(Math.round(ev.clientX || 0));
    w.svarint(Math.round(ev.clientY || 0));
    ws.send(w.finish());
  }

  function apply(r) {
    var count = r.uvarint();
    for (var i = 0; i < count; i++) {
      var op = r.byte();
      var id, parent, node;
      switch (op) {
        case OP_CREATE_ELEMENT:
          id = r.uvarint(); parent = r.uvarint(); r.string();
          node = document.createElement(r.string());
          nodes[id] = node;
          nodes[parent].appendChild(node);
          break;
        case OP_CREATE_TEXT:
          id = r.uvarint(); parent = r.uvarint();
          node = document.createTextNode(r.string());
          nodes[id] = node;
          nodes[parent].appendChild(node);
          break;
        case OP_CREATE_RAW:
          id = r.uvarint(); parent = r.uvarint();
          var tpl = document.createElement("template");
          tpl.innerHTML = r.string();
          node = tpl.content.firstChild || document.createTextNode("");
          nodes[id] = node;
          nodes[parent].appendChild(node);
          break;
        case OP_SET_TEXT:
          id = r.uvarint();
          nodes[id].textContent = r.string();
          break;
        case OP_SET_ATTR:
          id = r.uvarint();
          var an = r.string(), av = r.string();
          node = nodes[id];
          node.setAttribute(an, av);
          if (an === "value" && "value" in node) node.value = av;
          if (an === "checked" && "checked" in node) node.checked = av === "true";
          if (an === "selected" && "selected" in node) node.selected = av === "true";
          break;
        case OP_REMOVE_ATTR:
          id = r.uvarint();
          nodes[id].removeAttribute(r.string());
          break;
        case OP_REMOVE:
          id = r.uvarint();
          node = nodes[id];
          if (node.parentNode) node.parentNode.removeChild(node);
          delete nodes[id];
          break;
        case OP_LISTEN: {
          id = r.uvarint();
          var ref = r.uvarint();
          var trigger = r.string();
          var fn = function (lid, trg) {
            return function (ev) {
              if (trg === "submit") ev.preventDefault();
              sendEvent(lid, trg, ev);
            };
          }(ref, trigger);
          nodes[id].addEventListener(trigger, fn);
          listeners[ref] = { node: nodes[id], trigger: trigger, fn: fn };
          break;
        }
        case OP_MOVE:
          id = r.uvarint(); parent = r.uvarint();
          nodes[parent].appendChild(nodes[id]);
          break;
        case OP_UNLISTEN: {
          var lref = r.uvarint();
          var sub = listeners[lref];
          if (sub) {
            sub.node.removeEventListener(sub.trigger, sub.fn);
            delete listeners[lref];
          }
          break;
        }
        default:
          throw new Error("unknown op " + op);
      }
    }
  }

  ws.onmessage = function (msg) {
    var r = new Reader(msg.data);
    switch (r.byte()) {
      case FRAME_PATCHES:
        r.uvarint(); // seq
        apply(r);
        break;
      case FRAME_PING:
        ws.send(new Uint8Array([FRAME_PONG]));
        break;
    }
  };
  ws.onclose = function () {
    document.title = "(disconnected) " + document.title;
  };
})();
`

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTmpl.Execute(w, struct {
		Title  string
		Client template.JS
	}{Title: s.cfg.PageTitle, Client: template.JS(clientJS)})
	if err != nil {
		s.logger.Error("render page", "error", err)
	}
}
