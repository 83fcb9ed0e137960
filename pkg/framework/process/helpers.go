package process

// ProcessChannels runs fn once per connected channel pair.
func (c *Context) ProcessChannels(fn func(ch int, input, output []float32)) {
	for ch := 0; ch < c.NumChannels(); ch++ {
		fn(ch, c.Input[ch], c.Output[ch])
	}
}

// ProcessStereo runs fn on up to two channel pairs.
func (c *Context) ProcessStereo(fn func(ch int, input, output []float32)) {
	n := c.NumChannels()
	if n > 2 {
		n = 2
	}
	for ch := 0; ch < n; ch++ {
		fn(ch, c.Input[ch], c.Output[ch])
	}
}

// ProcessMono runs fn on the first channel pair only.
func (c *Context) ProcessMono(fn func(input, output []float32)) {
	if len(c.Input) > 0 && len(c.Output) > 0 {
		fn(c.Input[0], c.Output[0])
	}
}
