package screen

const vertex = `
#version 420

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}
`

const fragment = `
#version 420

layout (binding = 0) uniform sampler2D display;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // The display stores 0 or 1 in the red channel of each pixel.
    float on = step(0.5 / 255.0, texture2D(display, fragTexCoord).r);

    vec4 background = vec4(0.05, 0.07, 0.05, 1);
    vec4 foreground = vec4(0.55, 0.95, 0.55, 1);

    outputColor = mix(background, foreground, on);
}
`
