// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package choropleth

import "fmt"

// interactScript attaches the tooltip and pan/zoom handlers. The
// tooltip handlers mirror Tooltip.Hover and Tooltip.Leave: hovering a
// county with a data-tip label shows it near the pointer, and
// leaving any county hides it. Dragging and the mouse wheel pan and
// zoom the map group without bounds.
var interactScript = fmt.Sprintf(`
(function() {
	var svg = document.getElementById("choropleth");
	var map = document.getElementById("map");
	var tooltip = document.getElementById("tooltip");
	var rect = document.getElementById("tooltip-rect");
	var text = document.getElementById("tooltip-text");

	// Event position in the user space of el.
	function pointer(evt, el) {
		var pt = svg.createSVGPoint();
		pt.x = evt.clientX;
		pt.y = evt.clientY;
		return pt.matrixTransform(el.getScreenCTM().inverse());
	}

	map.addEventListener("mouseover", function(evt) {
		var el = evt.target;
		var label = el.getAttribute("data-tip");
		if (label === null) {
			return;
		}
		tooltip.style.display = "";
		tooltip.setAttribute("data-education", el.getAttribute("data-education"));
		var p = pointer(evt, el);
		tooltip.setAttribute("transform", "translate(" + (p.x + %[1]d) + ", " + (p.y + %[2]d) + ")");
		text.textContent = label;
		var w = +el.getAttribute("data-tip-w"), h = +el.getAttribute("data-tip-h");
		try {
			var bb = text.getBBox();
			w = bb.width + %[3]d;
			h = bb.height + %[3]d;
		} catch (e) {
			// Not rendered; keep the precomputed size.
		}
		rect.setAttribute("width", w);
		rect.setAttribute("height", h);
	});
	map.addEventListener("mouseout", function() {
		tooltip.style.display = "none";
	});

	var t = {k: 1, x: 0, y: 0};
	function apply() {
		map.setAttribute("transform", "translate(" + t.x + "," + t.y + ") scale(" + t.k + ")");
	}
	function zoomAt(p, k) {
		t.x = p.x - (p.x - t.x) * k / t.k;
		t.y = p.y - (p.y - t.y) * k / t.k;
		t.k = k;
		apply();
	}
	svg.addEventListener("wheel", function(evt) {
		evt.preventDefault();
		var f = evt.deltaMode === 1 ? 0.05 : evt.deltaMode ? 1 : 0.002;
		zoomAt(pointer(evt, svg), t.k * Math.pow(2, -evt.deltaY * f));
	}, {passive: false});
	svg.addEventListener("dblclick", function(evt) {
		zoomAt(pointer(evt, svg), t.k * (evt.shiftKey ? 0.5 : 2));
	});

	var drag = null;
	svg.addEventListener("mousedown", function(evt) {
		if (evt.button !== 0) {
			return;
		}
		var p = pointer(evt, svg);
		drag = {x: p.x - t.x, y: p.y - t.y};
		evt.preventDefault();
	});
	window.addEventListener("mousemove", function(evt) {
		if (drag === null) {
			return;
		}
		var p = pointer(evt, svg);
		t.x = p.x - drag.x;
		t.y = p.y - drag.y;
		apply();
	});
	window.addEventListener("mouseup", function() {
		drag = null;
	});
})();
`, tooltipDX, tooltipDY, tooltipPad)
