// Package skills 维护技能词库，并提供在简历或岗位描述中扫描技能的能力。
package skills

import (
	"strings"
	"unicode"
)

// Keywords 技能词库（小写匹配形式），重复项在初始化时去除
var Keywords = dedupe([]string{
	// 编程语言
	"java", "python", "go", "golang", "c++", "cpp", "c", "javascript", "js", "typescript", "ts",
	"c#", "csharp", "rust", "php", "ruby", "swift", "kotlin", "scala", "r语言", "r", "perl", "lua",
	"dart", "objective-c", "objc", "matlab", "shell", "bash", "powershell", "groovy", "clojure",
	"erlang", "elixir", "haskell", "f#", "fsharp", "ocaml", "prolog", "fortran", "cobol",

	// 前端框架和库
	"react", "vue", "vue.js", "angular", "angularjs", "svelte", "next.js", "nextjs", "nuxt.js", "nuxtjs",
	"ember", "backbone", "knockout", "mobx", "redux", "zustand", "recoil", "jotai",
	"jquery", "bootstrap", "ant design", "antd", "element ui", "element-ui", "element plus",
	"material-ui", "mui", "vuetify", "quasar", "primevue", "tailwind css", "tailwindcss",
	"sass", "scss", "less", "stylus", "css3", "html5", "webpack", "vite", "rollup", "parcel",
	"babel", "eslint", "prettier", "jest", "mocha", "cypress", "playwright", "puppeteer",
	"storybook", "d3.js", "d3", "three.js", "threejs", "chart.js", "echarts",

	// Java生态
	"spring", "springboot", "spring boot", "spring mvc", "spring cloud", "spring security",
	"mybatis", "mybatis-plus", "hibernate", "struts", "jpa", "jdbc", "servlet", "jsp",
	"netty", "vert.x", "play framework", "akka", "spark java",
	// Python生态
	"django", "flask", "fastapi", "tornado", "bottle", "sanic", "aiohttp", "asyncio",
	"celery", "gunicorn", "uwsgi", "wsgi", "asgi",
	// Node.js生态
	"node.js", "nodejs", "node", "express", "koa", "nest.js", "nestjs", "hapi", "sails",
	"meteor", "adonis", "loopback", "feathers",
	// 其他后端
	"laravel", "rails", "ruby on rails", "gin", "echo", "fiber", "beego", "iris",
	"asp.net", "aspnet", "dotnet", ".net", "dotnet core", "entity framework", "ef",
	"phoenix", "plug", "cowboy",

	// 关系型数据库
	"mysql", "mariadb", "postgresql", "postgres", "oracle", "sql server", "mssql", "sqlite",
	"db2", "informix", "sybase", "teradata", "greenplum",
	// NoSQL
	"mongodb", "mongo", "redis", "cassandra", "hbase", "couchdb", "couchbase",
	"dynamodb", "neo4j", "arangodb", "orientdb", "influxdb", "timescaledb",
	// 搜索引擎
	"elasticsearch", "es", "solr", "lucene", "opensearch",
	// 数据仓库
	"hive", "impala", "presto", "clickhouse", "druid", "kylin",

	// 消息队列和中间件
	"kafka", "rabbitmq", "rocketmq", "activemq", "pulsar", "nats", "zeromq", "zmq",
	"redis stream", "redis pub/sub", "nsq", "beanstalkd",
	// 缓存
	"memcached", "hazelcast", "ehcache", "caffeine", "guava cache",

	// 容器化
	"docker", "containerd", "podman", "kubernetes", "k8s", "k3s", "helm", "istio",
	"linkerd", "consul", "etcd", "zookeeper",
	// CI/CD
	"jenkins", "gitlab ci", "github actions", "travis ci", "circleci", "teamcity",
	"bamboo", "azure devops", "ci/cd", "cicd", "gitops", "argo cd", "argo",
	// 版本控制
	"git", "svn", "mercurial", "perforce",
	// 构建工具
	"maven", "gradle", "ant", "sbt", "npm", "yarn", "pnpm", "pip", "conda",
	// 云平台
	"aws", "amazon web services", "azure", "gcp", "google cloud", "阿里云", "alibaba cloud",
	"腾讯云", "tencent cloud", "华为云", "huawei cloud", "ucloud", "七牛云", "qiniu",
	"aws ec2", "aws s3", "aws lambda", "aws ecs", "aws eks", "aws rds", "aws dynamodb",
	"azure functions", "azure app service", "gcp compute", "gcp cloud functions",
	// 服务器和操作系统
	"linux", "ubuntu", "centos", "redhat", "rhel", "debian", "fedora", "suse",
	"windows server", "unix", "freebsd", "openbsd",
	// Web服务器
	"nginx", "apache", "apache httpd", "tomcat", "jetty", "undertow", "iis",
	// 监控和日志
	"prometheus", "grafana", "elk", "logstash", "kibana", "splunk",
	"datadog", "new relic", "apm", "jaeger", "zipkin", "skywalking", "pinpoint",

	// 网络协议
	"tcp/ip", "tcp", "udp", "http", "https", "http/2", "http2", "http/3", "http3",
	"websocket", "ws", "wss", "grpc", "graphql", "rest", "restful", "soap",
	"mqtt", "coap", "amqp", "stomp", "dns", "dhcp", "ftp", "sftp", "ssh", "telnet",
	"tls", "ssl", "ipv4", "ipv6", "ospf", "bgp", "vpn", "sdn", "nfv",

	// 系统和技术概念
	"多线程", "multithreading", "并发", "concurrency", "并行", "parallelism",
	"网络编程", "network programming", "socket编程", "socket programming",
	"jvm", "jre", "jdk", "gc", "garbage collection", "内存管理", "memory management",
	"sql优化", "sql optimization", "数据库优化", "database optimization",
	"性能优化", "performance optimization", "性能调优", "performance tuning",
	"缓存", "cache", "缓存策略", "caching strategy",
	"负载均衡", "load balancing", "high availability", "ha",
	"容灾", "disaster recovery", "备份", "backup", "恢复", "recovery",
	"安全", "security", "加密", "encryption", "认证", "authentication", "授权", "authorization",
	"oauth", "oauth2", "jwt", "token", "saml", "ldap", "单点登录", "sso",
	"设计模式", "design pattern", "架构设计", "architecture design",
	"微服务", "microservices", "服务治理", "service governance",
	"分布式", "distributed", "分布式系统", "distributed systems",
	"高并发", "high concurrency", "高吞吐", "high throughput",
	"消息队列", "message queue", "事件驱动", "event driven",
	"领域驱动设计", "ddd", "domain driven design",
	"测试驱动开发", "tdd", "test driven development",
	"敏捷开发", "agile", "scrum", "kanban", "devops", "sre",

	// AI/ML
	"机器学习", "machine learning", "ml", "深度学习", "deep learning", "dl",
	"tensorflow", "pytorch", "keras", "scikit-learn", "sklearn",
	"paddlepaddle", "mxnet", "caffe", "caffe2", "theano", "torch",
	"nlp", "自然语言处理", "natural language processing",
	"计算机视觉", "computer vision", "cv", "图像处理", "image processing",
	"cnn", "rnn", "lstm", "gru", "transformer", "bert", "gpt", "attention",
	"gan", "生成对抗网络", "reinforcement learning", "强化学习", "rl",
	"opencv", "pillow", "numpy", "pandas", "matplotlib", "seaborn",
	"xgboost", "lightgbm", "catboost", "spark mllib", "h2o", "大模型",

	// 大数据
	"hadoop", "hdfs", "mapreduce", "spark", "spark streaming",
	"flink", "storm", "samza", "beam", "airflow", "oozie",
	"pig", "sqoop", "flume",

	// 移动开发
	"android", "ios", "react native", "reactnative", "flutter", "xamarin",
	"ionic", "cordova", "phonegap", "uniapp", "uni-app",

	// 游戏开发
	"unity", "unreal engine", "cocos2d", "godot", "phaser",

	// 区块链
	"blockchain", "区块链", "ethereum", "solidity", "hyperledger", "fabric",
	"bitcoin", "智能合约", "smart contract",

	// 其他
	"api", "rpc", "sdk", "webservice", "中间件", "middleware",
	"搜索引擎", "search engine", "推荐系统", "recommendation system",
	"实时计算", "real-time computing", "流式计算", "stream computing",
	"数据挖掘", "data mining", "数据分析", "data analysis",
	"商业智能", "bi", "business intelligence", "数据可视化", "data visualization",
	"etl", "数据仓库", "data warehouse", "数据湖", "data lake",
	"项目管理", "project management", "jira", "confluence", "trello", "asana",
	"代码审查", "code review", "持续集成", "continuous integration",
	"持续部署", "continuous deployment", "持续交付", "continuous delivery",
})

// CommonTerms 最常见的20个技能，用于判断岗位描述是否有意义
var CommonTerms = []string{
	"java", "python", "go", "c++", "javascript", "typescript", "c#", "rust", "php", "ruby",
	"swift", "kotlin", "scala", "r语言", "perl", "lua", "react", "vue", "angular", "node.js",
}

// displayNames 小写匹配形式到展示形式；未列出的按默认规则处理
var displayNames = map[string]string{
	"c++": "C++", "cpp": "C++", "c#": "C#", "csharp": "C#", "f#": "F#", "fsharp": "F#",
	"node.js": "Node.js", "nodejs": "Node.js", "node": "Node",
	"ci/cd": "CI/CD", "cicd": "CI/CD", "tcp/ip": "TCP/IP",
	"sql server": "SQL Server", "mssql": "SQL Server", "sql优化": "SQL优化",
	"r语言": "R语言", "r": "R语言",
	"javascript": "JavaScript", "js": "JavaScript", "typescript": "TypeScript", "ts": "TypeScript",
	"golang": "Go", "go": "Go",
	"vue.js": "Vue.js", "vuejs": "Vue.js", "next.js": "Next.js", "nextjs": "Next.js",
	"nuxt.js": "Nuxt.js", "nuxtjs": "Nuxt.js", "nest.js": "Nest.js", "nestjs": "Nest.js",
	"spring boot": "Spring Boot", "springboot": "Spring Boot", "spring mvc": "Spring MVC",
	"spring cloud": "Spring Cloud", "spring security": "Spring Security",
	"mybatis": "MyBatis", "mybatis-plus": "MyBatis-Plus", "ruby on rails": "Ruby on Rails",
	"asp.net": "ASP.NET", "aspnet": "ASP.NET", ".net": ".NET", "dotnet": ".NET", "dotnet core": ".NET Core",
	"entity framework": "Entity Framework", "ef": "Entity Framework",
	"react native": "React Native", "reactnative": "React Native",
	"uni-app": "uni-app", "uniapp": "uni-app", "unreal engine": "Unreal Engine",
	"tailwind css": "Tailwind CSS", "tailwindcss": "Tailwind CSS",
	"material-ui": "Material-UI", "mui": "Material-UI",
	"element ui": "Element UI", "element-ui": "Element UI", "element plus": "Element Plus",
	"ant design": "Ant Design", "antd": "Ant Design",
	"d3.js": "D3.js", "d3": "D3.js", "three.js": "Three.js", "threejs": "Three.js", "chart.js": "Chart.js",
	"gitlab ci": "GitLab CI", "github actions": "GitHub Actions", "travis ci": "Travis CI",
	"azure devops": "Azure DevOps", "amazon web services": "Amazon Web Services",
	"google cloud": "Google Cloud", "gcp": "Google Cloud", "alibaba cloud": "Alibaba Cloud",
	"tencent cloud": "Tencent Cloud", "huawei cloud": "Huawei Cloud",
	"aws": "AWS", "aws ec2": "AWS EC2", "aws s3": "AWS S3", "aws lambda": "AWS Lambda", "aws ecs": "AWS ECS",
	"aws eks": "AWS EKS", "aws rds": "AWS RDS", "aws dynamodb": "AWS DynamoDB",
	"azure functions": "Azure Functions", "azure app service": "Azure App Service",
	"gcp compute": "GCP Compute", "gcp cloud functions": "GCP Cloud Functions",
	"windows server": "Windows Server", "apache httpd": "Apache HTTPD",
	"http/2": "HTTP/2", "http2": "HTTP/2", "http/3": "HTTP/3", "http3": "HTTP/3",
	"http": "HTTP", "https": "HTTPS", "grpc": "gRPC", "graphql": "GraphQL", "restful": "RESTful",
	"scikit-learn": "Scikit-learn", "sklearn": "Scikit-learn",
	"machine learning": "Machine Learning", "ml": "Machine Learning",
	"deep learning": "Deep Learning", "dl": "Deep Learning",
	"natural language processing": "Natural Language Processing", "nlp": "Natural Language Processing",
	"computer vision": "Computer Vision", "cv": "Computer Vision",
	"reinforcement learning": "Reinforcement Learning", "rl": "Reinforcement Learning",
	"gan": "GAN", "domain driven design": "Domain Driven Design", "ddd": "Domain Driven Design",
	"test driven development": "Test Driven Development", "tdd": "Test Driven Development",
	"business intelligence": "Business Intelligence", "bi": "Business Intelligence",
	"real-time computing": "Real-time Computing",
	"high availability": "High Availability", "ha": "High Availability",
	"garbage collection": "Garbage Collection", "gc": "Garbage Collection",
	"mysql": "MySQL", "mariadb": "MariaDB", "postgresql": "PostgreSQL", "postgres": "PostgreSQL",
	"mongodb": "MongoDB", "mongo": "MongoDB", "sqlite": "SQLite", "dynamodb": "DynamoDB",
	"influxdb": "InfluxDB", "timescaledb": "TimescaleDB", "couchdb": "CouchDB", "arangodb": "ArangoDB",
	"orientdb": "OrientDB", "hbase": "HBase", "clickhouse": "ClickHouse", "opensearch": "OpenSearch",
	"elasticsearch": "Elasticsearch", "es": "Elasticsearch",
	"rabbitmq": "RabbitMQ", "rocketmq": "RocketMQ", "activemq": "ActiveMQ", "zeromq": "ZeroMQ",
	"k8s": "K8s", "k3s": "K3s", "jquery": "jQuery", "ios": "iOS", "github": "GitHub",
	"pytorch": "PyTorch", "tensorflow": "TensorFlow", "opencv": "OpenCV", "numpy": "NumPy",
	"fastapi": "FastAPI", "javafx": "JavaFX", "oauth2": "OAuth2", "oauth": "OAuth",
	"html5": "HTML5", "css3": "CSS3", "jwt": "JWT", "sso": "SSO", "api": "API", "rpc": "RPC",
	"sdk": "SDK", "etl": "ETL", "jvm": "JVM", "jdk": "JDK", "jre": "JRE", "jpa": "JPA", "jdbc": "JDBC",
	"jsp": "JSP", "elk": "ELK", "apm": "APM", "sre": "SRE", "objective-c": "Objective-C", "objc": "Objective-C",
	"matlab": "MATLAB", "php": "PHP", "tcp": "TCP", "udp": "UDP", "dns": "DNS", "ssh": "SSH",
	"tls": "TLS", "ssl": "SSL", "vpn": "VPN", "mqtt": "MQTT", "amqp": "AMQP", "rest": "REST",
	"devops": "DevOps", "gitops": "GitOps", "cnn": "CNN", "rnn": "RNN", "lstm": "LSTM", "gru": "GRU",
	"bert": "BERT", "gpt": "GPT", "xgboost": "XGBoost", "lightgbm": "LightGBM",
}

// Display 返回技能的展示形式
func Display(term string) string {
	key := strings.ToLower(strings.TrimSpace(term))
	if name, ok := displayNames[key]; ok {
		return name
	}
	if key == "" {
		return ""
	}
	// 含 / 、全大写或含中文的保持原样
	if strings.Contains(term, "/") || isAllUpper(term) || containsCJK(term) {
		return strings.TrimSpace(term)
	}
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// DisplayAll 按顺序转换为展示形式，按小写去重
func DisplayAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		d := Display(t)
		if d == "" {
			continue
		}
		k := strings.ToLower(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}

// MatchKey 比较两个技能是否等价时使用的键：同义词归并到同一展示形式，tcp/ip 视为 tcp
func MatchKey(term string) string {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "tcp/ip" {
		return "tcp"
	}
	if name, ok := displayNames[key]; ok {
		k := strings.ToLower(name)
		if k == "tcp/ip" {
			return "tcp"
		}
		return k
	}
	return key
}

func capitalize(w string) string {
	rs := []rune(w)
	if len(rs) == 0 {
		return w
	}
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func containsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

func dedupe(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
