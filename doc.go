// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermalgrapher is a container for the packages printing scrolling
// line graphs on thermal printers.
//
// grapher draws the strips, thermal sends them to a printer, termstrip and
// pngstrip stand in for the printer, mqttfeed and sensorfeed provide the
// samples. See cmd/thermalgraph for a ready to use tool.
package thermalgrapher
