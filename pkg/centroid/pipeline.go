package centroid

// Compute returns the world-space center of every triangle of src. It stops
// at the first failing stage and never returns a partial buffer.
func (c *Calculator) Compute(src MeshSource) ([]float32, error) {
	centers, err := c.ComputeBoth(src)
	if err != nil {
		return nil, err
	}
	return centers.World, nil
}

// ComputeBoth is Compute but also returns the local-space buffer.
func (c *Calculator) ComputeBoth(src MeshSource) (Centers, error) {
	if src == nil {
		return Centers{}, newError("resolve", ErrMissingSource, "no mesh source given")
	}

	local, err := c.Extract(src.Indices(), src.Vertices())
	if err != nil {
		return Centers{}, err
	}
	world, err := c.Transform(local, src.LocalToWorld())
	if err != nil {
		return Centers{}, err
	}
	return Centers{Local: local, World: world}, nil
}

// ComputeTarget resolves target through r and runs Compute on the result.
func (c *Calculator) ComputeTarget(r Resolver, target string) ([]float32, error) {
	if r == nil {
		return nil, newError("resolve", ErrMissingSource, "no resolver for target %q", target)
	}
	src, ok := r.Resolve(target)
	if !ok || src == nil {
		return nil, newError("resolve", ErrMissingSource, "target %q has no mesh", target)
	}
	return c.Compute(src)
}
