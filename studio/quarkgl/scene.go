package quarkgl

// Material is a minimal surface description.
type Material struct {
	BaseColor Color
	Opacity   uint8 // 0..255. 255 means opaque.

	Emissive          Color
	EmissiveIntensity Scalar

	// Wireframe draws triangle edges only.
	Wireframe bool
	// Unlit ignores scene lighting and uses BaseColor directly.
	Unlit bool
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color     Color
	Intensity Scalar
	Position  Vec3
}

// PointLight radiates from Position with linear falloff to zero at Distance.
// Distance 0 means no falloff.
type PointLight struct {
	Color     Color
	Intensity Scalar
	Position  Vec3
	Distance  Scalar
}

// Lighting is the fixed light rig of a scene.
type Lighting struct {
	Ambient          Color
	AmbientIntensity Scalar

	Directional []DirectionalLight
	Points      []PointLight
}

// CameraType selects camera projection.
type CameraType uint8

const (
	CameraPerspective CameraType = iota
	CameraOrtho
)

// Camera describes the viewing transform.
type Camera struct {
	Type CameraType

	Position Vec3
	Target   Vec3
	Up       Vec3

	// Perspective.
	FOVYRad Scalar

	// Orthographic (half-height).
	OrthoSize Scalar

	Near Scalar
	Far  Scalar

	// Aspect overrides the target aspect when non-zero.
	Aspect Scalar
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	if c.Aspect != 0 {
		aspect = c.Aspect
	}
	switch c.Type {
	case CameraOrtho:
		size := c.OrthoSize
		if size == 0 {
			size = 1
		}
		top := size
		bottom := -size
		right := size * aspect
		left := -right
		return Mat4Ortho(left, right, bottom, top, c.Near, c.Far)
	default:
		fov := c.FOVYRad
		if fov == 0 {
			fov = Scalar(1.0)
		}
		return Mat4Perspective(fov, aspect, c.Near, c.Far)
	}
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	Color  Color
}

// Mesh is a triangle mesh with an object transform.
type Mesh struct {
	Enabled bool

	Vertices []Vertex
	Indices  []uint16 // triangle list

	Transform Mat4
	Material  Material
}

// Triangles returns the number of indexed triangles.
func (m Mesh) Triangles() int { return len(m.Indices) / 3 }

// PointCloud is a set of screen-facing round sprites.
//
// The scene keeps a reference; the owner may mutate Positions in place between frames
// but must not resize the slices while the cloud is in a scene.
type PointCloud struct {
	Enabled bool

	Positions []Vec3
	Colors    []Color  // optional, BaseColor when nil
	Sizes     []Scalar // optional, BaseSize when nil

	BaseColor Color
	BaseSize  Scalar
	Opacity   Scalar // 0..1

	Transform Mat4

	// Attenuation > 0 sizes sprites in reference pixels: size*Attenuation/depth at a
	// 1000px tall target. Attenuation == 0 treats size as world units.
	Attenuation Scalar

	// Pulse enables the sin(Time*2 + x*0.5)*0.3 + 1 size modulation.
	Pulse bool
	Time  Scalar
}

// Fog fades surfaces linearly toward Color between Near and Far eye depth.
// Additive point sprites fade out instead.
type Fog struct {
	Enabled bool
	Color   Color
	Near    Scalar
	Far     Scalar
}

func (f Fog) factor(depth Scalar) Scalar {
	if !f.Enabled || f.Far <= f.Near {
		return 0
	}
	return Clamp01((depth - f.Near) / (f.Far - f.Near))
}

// Scene is a collection of objects to render.
type Scene struct {
	Camera   Camera
	Lighting Lighting
	Fog      Fog

	meshes []Mesh
	alive  []bool

	points      []*PointCloud
	pointsAlive []bool
}

// CreateScene allocates a scene with fixed mesh and point cloud capacity.
func CreateScene(maxMeshes, maxPointClouds int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	if maxPointClouds < 0 {
		maxPointClouds = 0
	}
	return &Scene{
		Camera: Camera{
			Type:      CameraPerspective,
			Position:  V3(0, 0, 3),
			Target:    V3(0, 0, 0),
			Up:        V3(0, 1, 0),
			FOVYRad:   Scalar(1.0),
			Near:      Scalar(0.05),
			Far:       Scalar(100),
			OrthoSize: Scalar(1),
		},
		Lighting: Lighting{
			Ambient:          RGB(0xFF, 0xFF, 0xFF),
			AmbientIntensity: Scalar(0.25),
			Directional: []DirectionalLight{
				{Color: RGB(0xFF, 0xFF, 0xFF), Intensity: 0.75, Position: V3(1, 1, 1)},
			},
		},
		meshes:      make([]Mesh, maxMeshes),
		alive:       make([]bool, maxMeshes),
		points:      make([]*PointCloud, maxPointClouds),
		pointsAlive: make([]bool, maxPointClouds),
	}
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Transform == (Mat4{}) {
			m.Transform = Mat4Identity()
		}
		if m.Material.Opacity == 0 {
			m.Material.Opacity = 0xFF
		}
		if m.Material.BaseColor == (Color{}) {
			m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// RemoveMesh removes a mesh by id.
func (s *Scene) RemoveMesh(id int) {
	if s == nil || id < 0 || id >= len(s.meshes) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
}

// SetMeshEnabled enables/disables a mesh by id.
func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if !s.meshAlive(id) {
		return
	}
	s.meshes[id].Enabled = enabled
}

// UpdateMeshTransform updates a mesh transform by id.
func (s *Scene) UpdateMeshTransform(id int, m Mat4) {
	if !s.meshAlive(id) {
		return
	}
	s.meshes[id].Transform = m
}

// MeshTransform returns the transform of a live mesh.
func (s *Scene) MeshTransform(id int) (Mat4, bool) {
	if !s.meshAlive(id) {
		return Mat4{}, false
	}
	return s.meshes[id].Transform, true
}

// MeshMaterial returns the material of a live mesh.
func (s *Scene) MeshMaterial(id int) (Material, bool) {
	if !s.meshAlive(id) {
		return Material{}, false
	}
	return s.meshes[id].Material, true
}

// SetMeshMaterial replaces the material of a live mesh.
func (s *Scene) SetMeshMaterial(id int, mat Material) {
	if !s.meshAlive(id) {
		return
	}
	s.meshes[id].Material = mat
}

// AddPoints adds a point cloud and returns its id or -1 if full.
func (s *Scene) AddPoints(pc *PointCloud) int {
	if s == nil || pc == nil {
		return -1
	}
	for i := range s.points {
		if s.pointsAlive[i] {
			continue
		}
		if pc.Transform == (Mat4{}) {
			pc.Transform = Mat4Identity()
		}
		pc.Enabled = true
		s.points[i] = pc
		s.pointsAlive[i] = true
		return i
	}
	return -1
}

// RemovePoints removes a point cloud by id.
func (s *Scene) RemovePoints(id int) {
	if s == nil || id < 0 || id >= len(s.points) {
		return
	}
	s.pointsAlive[id] = false
	s.points[id] = nil
}

// Len returns the number of live meshes and point clouds.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ok := range s.alive {
		if ok {
			n++
		}
	}
	for _, ok := range s.pointsAlive {
		if ok {
			n++
		}
	}
	return n
}

// Clear removes every object from the scene.
func (s *Scene) Clear() {
	if s == nil {
		return
	}
	for i := range s.meshes {
		s.RemoveMesh(i)
	}
	for i := range s.points {
		s.RemovePoints(i)
	}
}

func (s *Scene) meshAlive(id int) bool {
	return s != nil && id >= 0 && id < len(s.meshes) && s.alive[id]
}

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(&s.meshes[i])
	}
}

func (s *Scene) eachPoints(fn func(pc *PointCloud)) {
	for i := range s.points {
		if !s.pointsAlive[i] || s.points[i] == nil {
			continue
		}
		fn(s.points[i])
	}
}
